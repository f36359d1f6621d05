// Package docwatch keeps a parsed TOML document in a state store and
// reloads it whenever the file changes.
package docwatch

import (
	"context"
	"fmt"
	"sort"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/axiom/internal/filewatch"
	"github.com/bft-labs/axiom/pkg/command"
	"github.com/bft-labs/axiom/pkg/loading"
	"github.com/bft-labs/axiom/pkg/state"
	"github.com/bft-labs/axiom/pkg/stream"
)

// Document is one parsed revision of the watched file.
type Document struct {
	Revision uint64
	Values   map[string]any
}

// Keys returns the document's top-level keys in order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.Values))
	for k := range d.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// State is the store value for a watched document.
type State struct {
	Path string
	// Revision counts observed file changes, starting at 1 for the initial load.
	Revision uint64
	Load     loading.State
	// Doc is the last document that loaded successfully. A failed reload
	// keeps it.
	Doc *Document
}

// Request asks for revision of the file at Path to be loaded.
type Request struct {
	Path     string
	Revision uint64
}

// InitialState returns the state for path before anything is loaded.
func InitialState(path string) State {
	return State{Path: path, Revision: 1, Load: loading.Initial()}
}

// OnChange bumps the revision for every file change.
func OnChange(s State, _ filewatch.Change) State {
	s.Revision++
	return s
}

// Requests selects one Request per distinct revision.
func Requests() stream.Selector[State, Request] {
	return stream.Pipe2(
		stream.MapBy(func(s State) Request { return Request{Path: s.Path, Revision: s.Revision} }),
		stream.DistinctValues[Request](),
	)
}

// LoadCommand reads and parses the requested revision.
func LoadCommand() command.Command[State, Request] {
	return command.Named[State, Request]("load-document", command.NewLoad[State, Request, *Document](
		Parse,
		setLoad,
		setDoc,
	))
}

// Parse reads the file named by req and decodes it as TOML. A missing file
// is retried briefly before it is reported.
func Parse(ctx context.Context, req Request) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := readFile(ctx, req.Path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	values := map[string]any{}
	if err := toml.Unmarshal(b, &values); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{Revision: req.Revision, Values: values}, nil
}

func setLoad(s State, ls loading.State) State {
	s.Load = ls
	return s
}

func setDoc(s State, doc *Document) State {
	s.Doc = doc
	return s
}

var _ state.Reducer[State, filewatch.Change] = OnChange
