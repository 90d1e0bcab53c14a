// Package session holds the read-only launcher state that theme widgets
// display: the game library, the selected game and the signed-in user.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	gserrors "github.com/alexisbeaulieu97/gameshelf/pkg/errors"
)

// Game is one library entry.
type Game struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Developer   string   `json:"developer,omitempty" yaml:"developer,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Cover       string   `json:"cover,omitempty" yaml:"cover,omitempty"`
	Background  string   `json:"background,omitempty" yaml:"background,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// User is the signed-in profile.
type User struct {
	UserName string `json:"userName" yaml:"userName"`
	Avatar   string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
}

// Snapshot is an immutable view of session state.
type Snapshot struct {
	SelectedGameID string `json:"selectedGameId,omitempty" yaml:"selectedGameId,omitempty"`
	Games          []Game `json:"games" yaml:"games"`
	User           User   `json:"user" yaml:"user"`

	once sync.Once
	tree interface{}
}

// Empty returns a snapshot with no games and no user.
func Empty() *Snapshot {
	return &Snapshot{}
}

// Load reads a snapshot from a JSON or YAML file. A missing file yields an
// empty snapshot.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return nil, gserrors.NewParseError(path, 0, err)
	}

	var snap Snapshot
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &snap)
	} else {
		err = yaml.Unmarshal(data, &snap)
	}
	if err != nil {
		return nil, gserrors.NewParseError(path, 0, err)
	}
	return &snap, nil
}

// SelectedGame returns the selected game. When no id is selected the first
// game is used.
func (s *Snapshot) SelectedGame() (Game, bool) {
	if s == nil || len(s.Games) == 0 {
		return Game{}, false
	}
	if s.SelectedGameID == "" {
		return s.Games[0], true
	}
	return s.Game(s.SelectedGameID)
}

// Game returns the game with the given id.
func (s *Snapshot) Game(id string) (Game, bool) {
	if s == nil {
		return Game{}, false
	}
	for _, game := range s.Games {
		if game.ID == id {
			return game, true
		}
	}
	return Game{}, false
}

// Lookup evaluates a JSONPath expression against the snapshot, for example
// "$.user.userName" or "$.games[0].name". The first match is returned.
func (s *Snapshot) Lookup(path string) (interface{}, error) {
	if s == nil {
		return nil, fmt.Errorf("session is empty")
	}
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", path, err)
	}
	results := expr.Get(s.generic())
	if len(results) == 0 {
		return nil, fmt.Errorf("jsonpath '%s' matched nothing", path)
	}
	return results[0], nil
}

// LookupString is Lookup formatted as text; it returns def on any failure.
func (s *Snapshot) LookupString(path, def string) string {
	value, err := s.Lookup(path)
	if err != nil || value == nil {
		return def
	}
	switch v := value.(type) {
	case string:
		return v
	case map[string]interface{}, []interface{}:
		return oj.JSON(v)
	default:
		return fmt.Sprint(v)
	}
}

func (s *Snapshot) generic() interface{} {
	s.once.Do(func() {
		data, err := json.Marshal(s)
		if err != nil {
			return
		}
		s.tree, _ = oj.Parse(data)
	})
	return s.tree
}
