package model

// CommentData is the value the comment template is executed against.
type CommentData struct {
	Author string
	Number int
	Title  string
}

// NewCommentData returns the template data for issue.
func NewCommentData(issue Issue) CommentData {
	return CommentData{Author: issue.Author, Number: issue.Number, Title: issue.Title}
}
