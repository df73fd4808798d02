package scopedlog

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// categoryLogger writes through a Service, tagging each entry with its
// category and the fields of every scope open on it. Scopes belong to the
// logger instance, so every goroutine sharing it sees them.
type categoryLogger struct {
	service  *Service
	category Category

	mu     sync.Mutex
	nextID uint64
	scopes []scopeFrame
}

type scopeFrame struct {
	id     uint64
	fields []Field
	text   string
}

func newCategoryLogger(s *Service, category Category) *categoryLogger {
	return &categoryLogger{service: s, category: category}
}

func (l *categoryLogger) IsEnabled(level zerolog.Level) bool {
	return l.service.IsEnabled(level)
}

// BeginScope pushes state onto the scope stack. Frames are removed by id so
// releases that happen out of order only drop their own frame.
func (l *categoryLogger) BeginScope(state any) func() {
	fields, text := scopeFields(state)

	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.scopes = append(l.scopes, scopeFrame{id: id, fields: fields, text: text})
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { l.endScope(id) })
	}
}

func (l *categoryLogger) endScope(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if l.scopes[i].id == id {
			l.scopes = append(l.scopes[:i], l.scopes[i+1:]...)
			return
		}
	}
}

func (l *categoryLogger) openScopes() []scopeFrame {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.scopes) == 0 {
		return nil
	}
	frames := make([]scopeFrame, len(l.scopes))
	copy(frames, l.scopes)
	return frames
}

// Log renders the message before opening the event so a panicking
// formatter never leaves a tracked event behind.
func (l *categoryLogger) Log(level zerolog.Level, eventID EventID, state any, err error, formatter Formatter) {
	if !l.IsEnabled(level) {
		return
	}

	var msg string
	if formatter != nil {
		msg = formatter(state, err)
	} else {
		msg = fmt.Sprint(state)
	}

	fields, texts := mergeScopes(l.openScopes())

	event := l.service.buildEvent(nil, level)
	event.Str(CategoryFieldName, string(l.category))
	if !eventID.IsZero() {
		event.Int(EventIDFieldName, eventID.ID)
		if eventID.Name != emptyString {
			event.Str(EventNameFieldName, eventID.Name)
		}
	}
	for _, f := range fields {
		event.Interface(f.Key, f.Value)
	}
	if len(texts) > 0 {
		event.Strs(ScopeFieldName, texts)
	}
	if err != nil {
		event.Err(err)
	}
	event.Msg(msg)
}

// mergeScopes flattens frames outermost first. On key collisions the
// innermost scope wins while keeping the position of the first occurrence.
func mergeScopes(frames []scopeFrame) ([]Field, []string) {
	if len(frames) == 0 {
		return nil, nil
	}
	var fields []Field
	var texts []string
	index := map[string]int{}
	for _, frame := range frames {
		for _, f := range frame.fields {
			if i, ok := index[f.Key]; ok {
				fields[i].Value = f.Value
				continue
			}
			index[f.Key] = len(fields)
			fields = append(fields, f)
		}
		if frame.text != emptyString {
			texts = append(texts, frame.text)
		}
	}
	return fields, texts
}
