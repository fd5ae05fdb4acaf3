package interfaces

import (
	"context"
	"html/template"
)

// PartialRenderer executes the view stored at a virtual path and returns the
// produced markup. The data value is handed to the template untouched.
type PartialRenderer interface {
	RenderPartial(ctx context.Context, virtualPath string, data any) (template.HTML, error)
}
