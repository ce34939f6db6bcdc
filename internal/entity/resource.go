package entity

// Resource is a fetched remote body.
type Resource struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}
