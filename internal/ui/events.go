// Package ui описывает события страницы и реестр их обработчиков.
package ui

import (
	"context"
	"errors"
	"fmt"
)

type EventKind string

const (
	DataLoaded     EventKind = "data_loaded"
	ControlChanged EventKind = "control_changed"
	ButtonClicked  EventKind = "button_clicked"
)

// Идентификаторы элементов управления страницы
const (
	DistrictFilter  = "districtFilter"
	MandalFilter    = "mandalFilter"
	TypeFilter      = "typeFilter"
	AnalyticsFilter = "analyticsFilter"
	ResetButton     = "resetBtn"
)

// ErrUnhandled - для события нет зарегистрированного обработчика
var ErrUnhandled = errors.New("no handler registered for event")

// Event - одно событие страницы. Для DataLoaded Control пустой.
type Event struct {
	Kind    EventKind
	Control string
	Value   string
}

// Handler обрабатывает событие синхронно, в рамках одного вызова
type Handler[T any] func(ctx context.Context, target T, ev Event) error

type handlerKey struct {
	kind    EventKind
	control string
}

// Dispatcher - реестр обработчиков по виду события и элементу управления
type Dispatcher[T any] struct {
	handlers map[handlerKey][]Handler[T]
}

func NewDispatcher[T any]() *Dispatcher[T] {
	return &Dispatcher[T]{handlers: make(map[handlerKey][]Handler[T])}
}

// On регистрирует обработчик. Обработчики одного события вызываются в порядке регистрации.
func (d *Dispatcher[T]) On(kind EventKind, control string, h Handler[T]) {
	key := handlerKey{kind: kind, control: control}
	d.handlers[key] = append(d.handlers[key], h)
}

// Handles сообщает, есть ли обработчик для события
func (d *Dispatcher[T]) Handles(kind EventKind, control string) bool {
	return len(d.handlers[handlerKey{kind: kind, control: control}]) > 0
}

// Dispatch вызывает обработчики события и останавливается на первой ошибке
func (d *Dispatcher[T]) Dispatch(ctx context.Context, target T, ev Event) error {
	handlers := d.handlers[handlerKey{kind: ev.Kind, control: ev.Control}]
	if len(handlers) == 0 {
		return fmt.Errorf("%w: %s %q", ErrUnhandled, ev.Kind, ev.Control)
	}
	for _, h := range handlers {
		if err := h(ctx, target, ev); err != nil {
			return err
		}
	}
	return nil
}
