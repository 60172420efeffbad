package bot

import (
	"flight-status-bot/mutex"
	"strconv"

	tele "gopkg.in/telebot.v3"
)

// telegramSink adapts the Telegram bot to the Sink the loops use.
type telegramSink struct {
	bot *tele.Bot
}

func (s *telegramSink) Post(chatId int64, content string) (MessageRef, error) {
	message, err := s.bot.Send(tele.ChatID(chatId), content)
	if err != nil {
		return MessageRef{}, err
	}
	return MessageRef{ChatId: message.Chat.ID, MessageId: message.ID}, nil
}

func (s *telegramSink) Edit(ref MessageRef, content string) error {
	_, err := s.bot.Edit(storedMessage(ref), content)
	return err
}

func (s *telegramSink) Delete(ref MessageRef) error {
	return s.bot.Delete(storedMessage(ref))
}

func (s *telegramSink) Pin(ref MessageRef) error {
	return s.bot.Pin(storedMessage(ref))
}

// storedMessage satisfies tele.Editable for a message we only know by ids.
type storedMessage MessageRef

func (m storedMessage) MessageSig() (string, int64) {
	return strconv.Itoa(m.MessageId), m.ChatId
}

// locker adapts mutex.Builder to the Locker interface.
type locker struct {
	mb *mutex.Builder
}

func (l locker) Flight(id int64) Lock {
	return l.mb.Flight(id)
}

func (l locker) StatusChat(chatId int64) Lock {
	return l.mb.StatusChat(chatId)
}
