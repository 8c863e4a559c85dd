package session

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgallion1/demystify/internal/parser"
)

// State is where a session sits in the analyze lifecycle.
type State string

const (
	StateEmpty      State = "empty"
	StateExtracting State = "extracting"
	StateExtracted  State = "extracted"
)

// Task names a memoized analysis over the document text.
type Task string

const (
	TaskSummary Task = "summary"
	TaskRisks   Task = "risks"
)

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

var (
	// ErrEmptyDocument means extraction produced no usable text.
	ErrEmptyDocument = errors.New("could not extract any text; please try a clearer document")
	// ErrNoDocument means the action needs an analyzed document first.
	ErrNoDocument = errors.New("no document has been analyzed in this session")
)

// Message is one transcript entry.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type resultKey struct {
	docHash string
	task    Task
}

// Session holds one user's document and everything derived from it. Methods
// that run a user action hold the session lock for the whole action, so
// actions on one session execute one at a time.
type Session struct {
	mu sync.Mutex

	ID string

	state      State
	text       string
	docHash    string
	results    map[resultKey]string
	transcript []Message
	files      []parser.FileResult

	createdAt time.Time
	lastSeen  atomic.Int64 // unix nanos; read without the session lock
	now       func() time.Time
}

func New(id string) *Session {
	s := &Session{
		ID:        id,
		state:     StateEmpty,
		results:   make(map[resultKey]string),
		createdAt: time.Now(),
		now:       time.Now,
	}
	s.lastSeen.Store(s.createdAt.UnixNano())
	return s
}

// Analyze runs extract as the Extracting phase and then replaces the document.
// The summary, risks and transcript are discarded whatever the outcome. A
// blank document leaves the session Empty and returns ErrEmptyDocument.
func (s *Session) Analyze(extract func() (string, []parser.FileResult)) error {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateExtracting
	text, files := extract()
	s.reset(text)
	s.files = files

	if strings.TrimSpace(text) == "" {
		s.state = StateEmpty
		return ErrEmptyDocument
	}
	s.state = StateExtracted
	return nil
}

// reset installs a new document and invalidates everything derived from the old one.
func (s *Session) reset(text string) {
	s.text = text
	s.docHash = ContentHashHex([]byte(text))
	clear(s.results)
	s.transcript = nil
	s.files = nil
	s.touch()
}

// Result returns the cached output of task for the current document, running
// compute on a miss. Failures are not cached.
func (s *Session) Result(task Task, compute func(text string) (string, error)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateExtracted {
		return "", ErrNoDocument
	}
	key := resultKey{docHash: s.docHash, task: task}
	if v, ok := s.results[key]; ok {
		return v, nil
	}

	v, err := compute(s.text)
	if err != nil {
		return "", err
	}
	s.results[key] = v
	s.touch()
	return v, nil
}

// Ask appends the question, computes a reply and appends it. When answer
// fails the question stays in the transcript and the error is returned.
func (s *Session) Ask(question string, answer func(text, question string) (string, error)) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateExtracted {
		return nil, ErrNoDocument
	}

	s.transcript = append(s.transcript, Message{Role: RoleUser, Content: question, CreatedAt: s.now()})
	s.touch()

	reply, err := answer(s.text, question)
	if err != nil {
		return s.transcriptCopy(), err
	}
	s.transcript = append(s.transcript, Message{Role: RoleAssistant, Content: reply, CreatedAt: s.now()})
	s.touch()
	return s.transcriptCopy(), nil
}

// RequireDocument reports ErrNoDocument unless a document has been analyzed.
func (s *Session) RequireDocument() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateExtracted {
		return ErrNoDocument
	}
	return nil
}

func (s *Session) transcriptCopy() []Message {
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *Session) touch() {
	s.lastSeen.Store(s.now().UnixNano())
}

// LastActive reports when the session was last used.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Snapshot is a read-only copy of session state.
type Snapshot struct {
	ID         string              `json:"session_id"`
	State      State               `json:"state"`
	Text       string              `json:"-"`
	DocHash    string              `json:"doc_hash,omitempty"`
	Chars      int                 `json:"chars"`
	Summary    string              `json:"-"`
	Risks      string              `json:"-"`
	Transcript []Message           `json:"-"`
	Files      []parser.FileResult `json:"files"`
	Tabs       []string            `json:"tabs"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// Tabs offered once a document is present.
var documentTabs = []string{"summary", "risks", "chat", "explain"}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:         s.ID,
		State:      s.state,
		Text:       s.text,
		Chars:      len(s.text),
		Summary:    s.results[resultKey{docHash: s.docHash, task: TaskSummary}],
		Risks:      s.results[resultKey{docHash: s.docHash, task: TaskRisks}],
		Transcript: s.transcriptCopy(),
		Files:      append([]parser.FileResult{}, s.files...),
		Tabs:       []string{},
		CreatedAt:  s.createdAt,
		UpdatedAt:  s.LastActive(),
	}
	if s.state == StateExtracted {
		snap.DocHash = s.docHash
		snap.Tabs = append(snap.Tabs, documentTabs...)
	}
	return snap
}
