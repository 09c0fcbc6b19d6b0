package model

// Post is a single listing entry as handed to the analyzer.
type Post struct {
	Title string
	Body  string
}
