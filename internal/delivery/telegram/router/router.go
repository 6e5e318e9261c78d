package router

import (
	"log"
	"strings"

	"gopkg.in/telebot.v3"
)

type HandlerFunc func(c telebot.Context, payload string) error

// DelegateFunc пробует обработать callback до таблицы хендлеров
// (календарь держит свои коды у себя). Возвращает true, если код её.
type DelegateFunc func(c telebot.Context, key, payload string) (bool, error)

// CallbackRouter разбирает callback-данные телеграма ("\fключ|payload")
// и направляет их зарегистрированному обработчику.
type CallbackRouter struct {
	handlers map[string]HandlerFunc
	Delegate DelegateFunc
}

func New() *CallbackRouter {
	return &CallbackRouter{handlers: make(map[string]HandlerFunc)}
}

func (r *CallbackRouter) Register(key string, h HandlerFunc) {
	r.handlers[key] = h
}

// Attach вешает роутер единственным обработчиком OnCallback.
func (r *CallbackRouter) Attach(bot *telebot.Bot) {
	bot.Handle(telebot.OnCallback, func(c telebot.Context) error {
		key, payload := splitData(c.Data())
		log.Printf("[callback] key=%q payload=%q", key, payload)
		// Отвечаем сразу, чтобы Telegram убрал часики.
		_ = c.Respond()

		if r.Delegate != nil {
			if handled, err := r.Delegate(c, key, payload); handled {
				return err
			}
		}
		if h, ok := r.handlers[key]; ok {
			return h(c, payload)
		}
		return nil
	})
}

func splitData(raw string) (key, payload string) {
	raw = strings.TrimPrefix(raw, "\f")
	if i := strings.IndexByte(raw, '|'); i >= 0 {
		return raw[:i], raw[i+1:]
	}
	return raw, ""
}
