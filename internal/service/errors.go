package service

import "errors"

var (
	// ErrDataSource - источник данных не загрузился или не разобрался
	ErrDataSource = errors.New("data source error")
	// ErrSessionNotFound - сессия не найдена или истекла
	ErrSessionNotFound = errors.New("session not found")
	// ErrUnknownControl - у страницы нет такого элемента управления
	ErrUnknownControl = errors.New("unknown control")
)
