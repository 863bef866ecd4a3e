package session

import "sync"

// DirectiveKind names an effect the engine wants a page collaborator
// to perform.
type DirectiveKind string

const (
	// DirectiveNavigate replaces the main document location.
	DirectiveNavigate DirectiveKind = "navigate"

	// DirectiveOpenTab opens a new browsing context.
	DirectiveOpenTab DirectiveKind = "open_tab"

	// DirectiveChooser presents the open-in-browser vs app/store choice.
	DirectiveChooser DirectiveKind = "chooser"

	// DirectiveAnnounce pushes a short status string to the
	// accessibility text region. Fire-and-forget.
	DirectiveAnnounce DirectiveKind = "announce"
)

// Choice carries everything the chooser collaborator needs to present
// the two safe options for an exhausted session.
type Choice struct {
	PlatformDisplayName string `json:"platform_display_name"`
	WebURL              string `json:"web_url"`
	AppURI              string `json:"app_uri,omitempty"`
	StoreURI            string `json:"store_uri,omitempty"`
}

// Directive is one queued effect for the page collaborator.
type Directive struct {
	Kind   DirectiveKind `json:"kind"`
	URI    string        `json:"uri,omitempty"`
	Choice *Choice       `json:"choice,omitempty"`
	Text   string        `json:"text,omitempty"`
}

// Terminal is the collaborator invoked for the one definitive outcome
// of a session: navigate to the web destination or present the chooser.
type Terminal interface {
	NavigateWeb(url string)
	PresentChoice(c Choice)
}

// Announcer is an optional collaborator for accessibility status
// strings. Terminals that also implement it receive announcements.
type Announcer interface {
	Announce(text string)
}

// Recorder buffers directives for collaborators that poll over the
// wire instead of reacting in-process. It implements both the
// Navigator and Terminal contracts.
type Recorder struct {
	mu         sync.Mutex
	directives []Directive
}

// NewRecorder creates an empty directive buffer.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Navigate(uri string) error {
	r.push(Directive{Kind: DirectiveNavigate, URI: uri})
	return nil
}

func (r *Recorder) OpenTab(uri string) error {
	r.push(Directive{Kind: DirectiveOpenTab, URI: uri})
	return nil
}

func (r *Recorder) NavigateWeb(url string) {
	r.push(Directive{Kind: DirectiveNavigate, URI: url})
}

func (r *Recorder) PresentChoice(c Choice) {
	choice := c
	r.push(Directive{Kind: DirectiveChooser, Choice: &choice})
}

func (r *Recorder) Announce(text string) {
	r.push(Directive{Kind: DirectiveAnnounce, Text: text})
}

// Drain returns the buffered directives and clears the buffer.
func (r *Recorder) Drain() []Directive {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.directives
	r.directives = nil
	return out
}

func (r *Recorder) push(d Directive) {
	r.mu.Lock()
	r.directives = append(r.directives, d)
	r.mu.Unlock()
}
