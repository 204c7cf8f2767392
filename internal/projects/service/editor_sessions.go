package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"eco-editor/internal/layout/editor"
	layout "eco-editor/internal/layout/models"
	"eco-editor/internal/layout/render"
	"eco-editor/internal/layout/validator"

	"github.com/google/uuid"
)

// ============================================================
// Editor Sessions
// ============================================================

const SessionTTL = 2 * time.Hour

// EditorState - состояние редактора после пакета команд.
// Renders - сколько раз документ перерисовывался за пакет.
type EditorState struct {
	Token   string      `json:"token,omitempty"`
	View    editor.View `json:"view"`
	Markup  string      `json:"markup"`
	Renders int         `json:"renders"`
}

type editorSession struct {
	mu        sync.Mutex
	projectID string
	ed        *editor.Editor
	renders   int
	touched   time.Time
}

// EditorSessions хранит открытые редакторы проектов по токену.
type EditorSessions struct {
	mu       sync.Mutex
	sessions map[string]*editorSession // token -> session

	projects  *ProjectService
	validator *validator.Validator
	prober    editor.ImageProber
	renderer  *render.Renderer
	dense     bool
	now       func() time.Time
}

func NewEditorSessions(projects *ProjectService, v *validator.Validator, prober editor.ImageProber, dense bool) *EditorSessions {
	return &EditorSessions{
		sessions:  make(map[string]*editorSession),
		projects:  projects,
		validator: v,
		prober:    prober,
		renderer:  render.NewRenderer(v),
		dense:     dense,
		now:       time.Now,
	}
}

func (m *EditorSessions) newEditor(s *editorSession) *editor.Editor {
	return editor.New(editor.Options{
		Validator:   m.validator,
		Prober:      m.prober,
		Render:      func(editor.View) { s.renders++ },
		DenseZOrder: m.dense,
	})
}

func (m *EditorSessions) state(token string, s *editorSession) EditorState {
	view := s.ed.View()
	return EditorState{
		Token:   token,
		View:    view,
		Markup:  m.renderer.View(view.Document),
		Renders: s.renders,
	}
}

// Open загружает документ проекта в новый редактор и выдаёт токен.
func (m *EditorSessions) Open(ctx context.Context, projectID string) (EditorState, error) {
	doc, err := m.projects.LoadDocument(ctx, projectID)
	if err != nil {
		return EditorState{}, err
	}

	s := &editorSession{projectID: projectID, touched: m.now()}
	s.ed = m.newEditor(s)
	s.ed.Open(doc)
	s.renders = 0

	token := uuid.NewString()
	m.mu.Lock()
	m.sweep()
	m.sessions[token] = s
	m.mu.Unlock()

	log.Printf("[EDITOR] Session opened for project %s", projectID)
	return m.state(token, s), nil
}

func (m *EditorSessions) resolve(token string) (*editorSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	s, ok := m.sessions[token]
	if !ok {
		return nil, fmt.Errorf("editor session: %w", ErrNotFound)
	}
	return s, nil
}

// State возвращает текущее состояние сессии.
func (m *EditorSessions) State(token string) (EditorState, error) {
	s, err := m.resolve(token)
	if err != nil {
		return EditorState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = m.now()
	return m.state(token, s), nil
}

// Apply применяет команды по порядку. Команды до первой ошибки остаются применёнными.
func (m *EditorSessions) Apply(ctx context.Context, token string, cmds []editor.Command) (EditorState, error) {
	s, err := m.resolve(token)
	if err != nil {
		return EditorState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touched = m.now()
	s.renders = 0
	err = s.ed.ApplyAll(ctx, cmds)
	return m.state(token, s), err
}

// Save сохраняет документ сессии в проект.
func (m *EditorSessions) Save(ctx context.Context, token string) (Notice, error) {
	s, err := m.resolve(token)
	if err != nil {
		return NoticeFor(err), err
	}
	s.mu.Lock()
	s.touched = m.now()
	doc := s.ed.Serialize()
	projectID := s.projectID
	s.mu.Unlock()

	raw, err := encodeDocument(doc)
	if err != nil {
		return NoticeFor(err), err
	}
	_, notice, err := m.projects.SaveDocument(ctx, projectID, []byte(raw), nil)
	return notice, err
}

// Close закрывает сессию; false - токен не найден.
func (m *EditorSessions) Close(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.sessions[token]
	delete(m.sessions, token)
	return ok
}

// Run периодически удаляет простаивающие сессии, пока не отменён ctx.
func (m *EditorSessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mu.Lock()
			m.sweep()
			m.mu.Unlock()
		}
	}
}

// Len возвращает число открытых сессий.
func (m *EditorSessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// sweep удаляет сессии без активности дольше SessionTTL. Вызывается под m.mu.
func (m *EditorSessions) sweep() {
	now := m.now()
	for token, s := range m.sessions {
		if s.mu.TryLock() {
			stale := now.Sub(s.touched) > SessionTTL
			s.mu.Unlock()
			if stale {
				delete(m.sessions, token)
				log.Printf("[EDITOR] Session for project %s expired", s.projectID)
			}
		}
	}
}

// ApplyDocument - вариант без сессии: документ, выделение и масштаб приходят
// с запросом, команды применяются к ним, результат возвращается целиком.
func (m *EditorSessions) ApplyDocument(ctx context.Context, raw []byte, selected int, zoom float64, cmds []editor.Command) (EditorState, error) {
	doc, err := m.validator.Document(raw)
	if err != nil {
		err = invalid(documentMessage(err), err)
		return EditorState{}, err
	}
	return m.applyTo(ctx, doc, selected, zoom, cmds)
}

func (m *EditorSessions) applyTo(ctx context.Context, doc layout.Document, selected int, zoom float64, cmds []editor.Command) (EditorState, error) {
	s := &editorSession{}
	s.ed = m.newEditor(s)
	s.ed.Open(doc)
	if zoom > 0 {
		s.ed.SetZoom(zoom)
	}
	if selected >= 0 {
		if _, err := s.ed.Select(selected); err != nil {
			return EditorState{}, invalid("Elemento seleccionado no válido", err)
		}
	}
	s.renders = 0

	err := s.ed.ApplyAll(ctx, cmds)
	return m.state("", s), err
}
