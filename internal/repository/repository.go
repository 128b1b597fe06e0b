package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/studysync/coursesync/internal/offering"
)

const (
	DefaultDatabase   = "study-sync"
	DefaultCollection = "scrappedcourses"
)

var (
	// ErrNotFound is returned when no stored record has the requested class number
	ErrNotFound = errors.New("record not found")
	// ErrNoURI means no store was configured
	ErrNoURI = errors.New("no store URI configured")
	// ErrInvalidURI means the store URI has an unsupported scheme
	ErrInvalidURI = errors.New("invalid store URI")
)

// Store is a collection of course offering records keyed by class number
type Store interface {
	// FindByClassNumber returns the stored record or ErrNotFound
	FindByClassNumber(ctx context.Context, classNumber string) (offering.Record, error)
	// Insert stores a new record
	Insert(ctx context.Context, rec offering.Record) error
	// Replace overwrites the fields of the record with the same class number
	Replace(ctx context.Context, rec offering.Record) error
	// List returns all stored records ordered by class number
	List(ctx context.Context) ([]offering.Record, error)
	// Close releases the underlying connection or file
	Close(ctx context.Context) error
}

// Options selects and configures a store
type Options struct {
	URI         string // mongodb://, mongodb+srv:// or file://
	Database    string
	Collection  string
	TLSInsecure bool // skip certificate verification for MongoDB
	DryRun      bool // wrap the store in a DryRunStore
}

func (o Options) withDefaults() Options {
	if o.Database == "" {
		o.Database = DefaultDatabase
	}
	if o.Collection == "" {
		o.Collection = DefaultCollection
	}
	return o
}

// Open connects to the store named by opts.URI.
// It returns ErrNoURI or ErrInvalidURI when the URI cannot name a store.
func Open(ctx context.Context, opts Options) (Store, error) {
	opts = opts.withDefaults()
	uri := strings.TrimSpace(opts.URI)

	var (
		store Store
		err   error
	)
	switch {
	case uri == "":
		return nil, ErrNoURI
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		store, err = ConnectMongo(ctx, opts)
	case strings.HasPrefix(uri, "file://"):
		store, err = NewFileStore(strings.TrimPrefix(uri, "file://"), opts.Database, opts.Collection)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme in %q", ErrInvalidURI, Redact(uri))
	}
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		store = NewDryRunStore(store)
	}
	return store, nil
}

// Redact hides the credentials of a store URI so it can be logged
func Redact(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		if slash := strings.Index(rest, "/"); slash < 0 || at < slash {
			rest = "***@" + rest[at+1:]
		}
	}
	return scheme + "://" + rest
}
