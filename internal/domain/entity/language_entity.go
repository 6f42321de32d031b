package entity

// Language is an entry of the language catalog.
// Code is stored lower-case and is unique across the catalog.
type Language struct {
	ID     int
	Code   string
	Name   string
	Script *string
}
