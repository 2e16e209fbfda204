package taskform

import (
	"errors"
	"testing"

	"github.com/nhle/tarefas/internal/model"
)

func TestValidateTitle(t *testing.T) {
	validate := validateTitle(3)

	if err := validate("   "); !errors.Is(err, model.ErrTitleEmpty) {
		t.Errorf("blank title: got %v, want ErrTitleEmpty", err)
	}
	if err := validate(" ab "); !errors.Is(err, model.ErrTitleTooShort) {
		t.Errorf("short title: got %v, want ErrTitleTooShort", err)
	}
	if err := validate("abc"); err != nil {
		t.Errorf("valid title rejected: %v", err)
	}
}

func TestSubmitMessages(t *testing.T) {
	m := New(3, 80, 24)

	m.fb.title = "  Buy milk "
	msg := m.handleSubmit()()
	if got, ok := msg.(TaskCreatedMsg); !ok || got.Title != "Buy milk" {
		t.Errorf("create submit: got %#v", msg)
	}

	m.editMode = true
	m.editID = 42
	m.fb.title = "Renamed"
	msg = m.handleSubmit()()
	if got, ok := msg.(TaskUpdatedMsg); !ok || got.TaskID != 42 || got.Title != "Renamed" {
		t.Errorf("edit submit: got %#v", msg)
	}
}

func TestStartEditPrefillsTitle(t *testing.T) {
	m := New(3, 80, 24)
	m.StartEdit(model.Task{ID: 7, Title: "Old title"})

	if !m.Active() {
		t.Fatal("expected form to be active")
	}
	if m.fb.title != "Old title" || m.editID != 7 {
		t.Errorf("unexpected bindings %+v, editID=%d", *m.fb, m.editID)
	}
}
