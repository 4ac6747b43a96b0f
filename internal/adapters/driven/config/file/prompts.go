package file

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

//go:embed prompts/*.txt
var embeddedPrompts embed.FS

// promptNames lists every prompt the store seeds on disk.
var promptNames = []string{
	driven.PromptSystem,
	driven.PromptConversation,
	driven.PromptClassify,
	driven.PromptUserStories,
	driven.PromptStakeholders,
	driven.PromptInitialRequirements,
	driven.PromptImprove,
}

// PromptStore loads LLM prompts from user-editable files on disk, falling
// back to the defaults embedded in the binary.
//
// The directory is created lazily on the first Load so that constructing a
// store performs no I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.reqbot/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".reqbot", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// DefaultPrompt returns the embedded default for name.
func DefaultPrompt(name string) (string, bool) {
	data, err := embeddedPrompts.ReadFile("prompts/" + name + ".txt")
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// Load returns the prompt template for the given name. A file that is
// missing, unreadable or empty falls back to the embedded default.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil || prompt == "" {
		def, ok := DefaultPrompt(name)
		if !ok {
			if err == nil {
				err = fmt.Errorf("empty prompt file")
			}
			return "", fmt.Errorf("load prompt %q: %w", name, err)
		}
		prompt = def
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// InitErr reports why the prompt directory could not be prepared, if it
// could not. Loads still succeed from the embedded defaults.
func (s *PromptStore) InitErr() error {
	s.initOnce.Do(s.initialise)
	return s.initErr
}

func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for _, name := range promptNames {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			continue
		}
		content, _ := DefaultPrompt(name)
		if err := os.WriteFile(path, []byte(content+"\n"), 0600); err != nil {
			s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
			return
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# Reqbot Prompts

These files are the instructions reqbot sends to your language model.

## Files

- ` + "`system.txt`" + ` - Shared system prompt; defines the requirement types
- ` + "`conversation.txt`" + ` - Chat turns that update the requirement list
- ` + "`initial_requirements.txt`" + ` - Drafts requirements from an idea (%s = idea)
- ` + "`classify.txt`" + ` - Classifies requirements (%s = JSON array)
- ` + "`user_stories.txt`" + ` - Writes user stories (%s = JSON array)
- ` + "`stakeholders.txt`" + ` - Identifies stakeholders (%s = JSON array)
- ` + "`improve.txt`" + ` - Applies free-form feedback (%s = current list and changes)

## Customisation

Edits are picked up while reqbot is running. Delete a file to restore its
default on the next start. Keep every ` + "`%s`" + ` placeholder.
`
	return os.WriteFile(path, []byte(content), 0600)
}
