package console

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

const helpHeader = "Documented commands (type help <topic>):"

var helpTopics = map[string]string{
	"EOF":     "Exits the program without formatting",
	"all":     "Prints the string representation of all instances of a given class",
	"count":   "Retrieve the number of instances of a class",
	"create":  "Creates a new instance of a given class",
	"destroy": "Deletes an instance based on the class name and id",
	"help":    `List available commands with "help" or detailed help with "help cmd".`,
	"quit":    "Quit command to exit the program",
	"show":    "Prints the string representation of an instance based on the class name and id",
	"update":  "Updates an instance based on the class name and id",
}

func (c *Console) doHelp(_ context.Context, arg string) bool {
	topic := strings.TrimSpace(arg)
	if topic == "" {
		names := make([]string, 0, len(helpTopics))
		for name := range helpTopics {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(c.out, "\n%s\n%s\n%s\n\n",
			helpHeader, strings.Repeat("=", len(helpHeader)), strings.Join(names, "  "))
		return false
	}
	text, ok := helpTopics[topic]
	if !ok {
		c.println("*** No help on " + topic)
		return false
	}
	fmt.Fprintf(c.out, "%s\n\n", text)
	return false
}
