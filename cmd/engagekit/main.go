// Command engagekit automates engagement on a professional network:
// feed monitoring, profile warmup, connection outreach, lead scraping and
// bulk post drafting.
package main

func main() {
	Execute()
}
