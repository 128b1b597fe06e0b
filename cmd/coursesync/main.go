// Command coursesync fetches the class schedule page and syncs its classes
// into the course collection.
package main

import "github.com/studysync/coursesync/internal/cli"

func main() {
	cli.Execute()
}
