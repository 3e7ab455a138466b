// Command courtcrawler harvests judicial facility names from court
// directory websites.
package main

import (
	"github.com/JakeFAU/court-directory-crawler/cmd"
)

func main() {
	cmd.Execute()
}
