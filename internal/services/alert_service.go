package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AlertService уведомляет дежурных, когда учётка упёрлась в порог капчи.
type AlertService interface {
	NotifyLockout(kind, email string, attempts int)
}

type telegramAlertService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramAlertService(botToken string, chatID int64) (AlertService, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &telegramAlertService{bot: bot, chatID: chatID}, nil
}

func (s *telegramAlertService) NotifyLockout(kind, email string, attempts int) {
	if s == nil || s.bot == nil || s.chatID == 0 {
		return
	}
	text := fmt.Sprintf("⚠️ login throttled: kind=%s email=%s failed_attempts=%d (captcha now required)",
		kind, email, attempts)
	if _, err := s.bot.Send(tgbotapi.NewMessage(s.chatID, text)); err != nil {
		// алерт вторичен, вход из-за него не ломаем
		log.Printf("[alerts][lockout] send failed: %v", err)
	}
}
