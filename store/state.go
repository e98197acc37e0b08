package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"socialweb/models"
)

var (
	ErrFileAbsent    = errors.New("a file is required for this upload")
	ErrNoAccessToken = errors.New("login response did not contain an access token")
	ErrValidation    = errors.New("invalid input")
)

var validate = validator.New()

func validateInput(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// Notifier получает события об изменениях кешей
type Notifier interface {
	Notify(event models.StateEvent)
}

type NotifierFunc func(event models.StateEvent)

func (f NotifierFunc) Notify(event models.StateEvent) { f(event) }

type emitFunc func(mutation string, id int64)

func emitter(module string, n Notifier) emitFunc {
	if n == nil {
		return func(string, int64) {}
	}
	return func(mutation string, id int64) {
		n.Notify(models.StateEvent{Module: module, Mutation: mutation, ID: id, At: time.Now()})
	}
}

// opStatus - флаги loading/error модуля. begin в начале операции, end через defer
type opStatus struct {
	smu     sync.RWMutex
	loading bool
	lastErr string
}

func (s *opStatus) begin() {
	s.smu.Lock()
	defer s.smu.Unlock()
	s.loading = true
	s.lastErr = ""
}

func (s *opStatus) end() {
	s.smu.Lock()
	defer s.smu.Unlock()
	s.loading = false
}

// fail записывает сообщение и возвращает ту же ошибку вызывающему
func (s *opStatus) fail(err error) error {
	s.smu.Lock()
	defer s.smu.Unlock()
	s.lastErr = err.Error()
	return err
}

func (s *opStatus) Loading() bool {
	s.smu.RLock()
	defer s.smu.RUnlock()
	return s.loading
}

// LastError - сообщение последней ошибки модуля, пусто если ошибки не было
func (s *opStatus) LastError() string {
	s.smu.RLock()
	defer s.smu.RUnlock()
	return s.lastErr
}
