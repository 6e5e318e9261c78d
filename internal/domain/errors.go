package domain

import (
	"errors"
	"fmt"
)

// Ошибки-сигналы: проверяются через errors.Is. Всё, что не перечислено
// здесь и не FormatError, считается недоступностью хранилища.
var (
	// ErrNotFound — записи на указанную дату нет. Штатный исход, не сбой.
	ErrNotFound = errors.New("запись на эту дату не найдена")

	// ErrDuplicateKey — запись на дату уже есть, нужно явное подтверждение
	// перезаписи.
	ErrDuplicateKey = errors.New("запись на эту дату уже существует")
)

// FormatError — нечитаемый пользовательский ввод (дата, время, число).
// Обрабатывается слоем диалога повторным запросом и до хранилища не доходит.
type FormatError struct {
	Kind  string // что именно не разобралось: "дата", "время", "число"
	Input string
	Want  string // ожидаемый формат, для подсказки пользователю
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("неверный формат (%s): %q, ожидается %s", e.Kind, e.Input, e.Want)
}

// IsFormat сообщает, является ли ошибка ошибкой формата ввода.
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
