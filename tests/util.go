package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/fomu/core"
	"github.com/trezcool/fomu/core/customform"
	inmemdb "github.com/trezcool/fomu/storage/database/inmem"
)

// PrepareRepo returns an empty in-memory custom form repository.
func PrepareRepo(t *testing.T) customform.Repository {
	t.Helper()
	return inmemdb.NewCustomFormRepository(inmemdb.Open())
}

// RegistrationDocument is a contiguous 5 elements document:
// heading(1), 5-likert(2), textBlock(3), dropdown(4), checkbox(5).
func RegistrationDocument() customform.Document {
	return customform.Document{
		Headings: []*customform.Heading{{Order: 1, Text: "Registration"}},
		Prompts: []*customform.Prompt{
			{Order: 2, Text: "How experienced are you?", Type: customform.Likert5, Required: true},
			{Order: 4, Text: "Track", Type: customform.Dropdown, Options: []customform.Option{
				{Value: "web", Label: "Web"},
				{Value: "infra", Label: "Infra"},
			}},
			{Order: 5, Text: "I accept the rules", Type: customform.Checkbox, Required: true},
		},
		TextBlocks: []*customform.TextBlock{{Order: 3, Text: "<p>Pick your <b>track</b></p>"}},
	}
}

func CreateForm(
	t *testing.T,
	repo customform.Repository,
	title string,
	purpose customform.Purpose,
	content customform.Document,
	createdAt ...time.Time,
) customform.CustomForm {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	form, err := repo.CreateForm(context.Background(), customform.CustomForm{
		ID:        uuid.New().String(),
		Title:     title,
		Purpose:   purpose,
		Content:   content,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("createForm() failed: %v", err)
	}
	return form
}

type LogEntry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// Logger records log entries for assertions.
type Logger struct {
	mu      sync.Mutex
	entries []LogEntry
}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger {
	return new(Logger)
}

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	l.entries = append(l.entries, LogEntry{Level: level, Msg: msg, Args: args})
	l.mu.Unlock()
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.log("fatal", msg, args)
	panic(fmt.Sprintf("fatal: %s", msg))
}

// Messages returns the messages logged at level.
func (l *Logger) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var msgs []string
	for _, e := range l.entries {
		if e.Level == level {
			msgs = append(msgs, e.Msg)
		}
	}
	return msgs
}
