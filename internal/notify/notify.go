// ABOUTME: User-facing notifications for form submissions
// ABOUTME: A loading notice is resolved in place by its success or error

package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/tui/icons"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/tui/styles"
)

// Kind is the visual class of a toast
type Kind int

const (
	KindLoading Kind = iota
	KindSuccess
	KindError
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Toast is one notification
type Toast struct {
	ID      int
	Kind    Kind
	Message string
}

// Render formats a toast with its icon and color
func (t Toast) Render() string {
	switch t.Kind {
	case KindSuccess:
		return styles.ToastSuccess.Render(fmt.Sprintf("%s %s", icons.CheckOK, t.Message))
	case KindError:
		return styles.ToastError.Render(fmt.Sprintf("%s %s", icons.Critical, t.Message))
	default:
		return styles.ToastLoading.Render(fmt.Sprintf("%s %s", icons.Pending, t.Message))
	}
}

// Recorder keeps toasts in memory; the TUI renders the latest one
type Recorder struct {
	mu     sync.Mutex
	nextID int
	toasts []Toast
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Loading opens a loading toast and returns its id
func (r *Recorder) Loading(msg string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.toasts = append(r.toasts, Toast{ID: r.nextID, Kind: KindLoading, Message: msg})
	return r.nextID
}

// Success resolves toast id as a success
func (r *Recorder) Success(id int, msg string) {
	r.resolve(id, KindSuccess, msg)
}

// Error resolves toast id as an error
func (r *Recorder) Error(id int, msg string) {
	r.resolve(id, KindError, msg)
}

func (r *Recorder) resolve(id int, kind Kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.toasts {
		if r.toasts[i].ID == id {
			r.toasts[i].Kind = kind
			r.toasts[i].Message = msg
			r.moveToEnd(i)
			return
		}
	}
	r.nextID++
	r.toasts = append(r.toasts, Toast{ID: r.nextID, Kind: kind, Message: msg})
}

func (r *Recorder) moveToEnd(i int) {
	t := r.toasts[i]
	r.toasts = append(r.toasts[:i], r.toasts[i+1:]...)
	r.toasts = append(r.toasts, t)
}

// Last returns the most recent toast
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}

// All returns a copy of every toast in display order
func (r *Recorder) All() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Console writes each toast as a styled line
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	nextID int
}

// NewConsole creates a console notifier writing to w
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Loading implements the form notifier
func (c *Console) Loading(msg string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	fmt.Fprintln(c.w, Toast{ID: c.nextID, Kind: KindLoading, Message: msg}.Render())
	return c.nextID
}

// Success implements the form notifier
func (c *Console) Success(id int, msg string) {
	c.write(Toast{ID: id, Kind: KindSuccess, Message: msg})
}

// Error implements the form notifier
func (c *Console) Error(id int, msg string) {
	c.write(Toast{ID: id, Kind: KindError, Message: msg})
}

func (c *Console) write(t Toast) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, t.Render())
}
