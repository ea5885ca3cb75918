package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "strip-vision/internal/application"
	"strip-vision/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот для выравнивания фото тест-полосок для бассейна.

📸 Отправьте мне фото полоски, и я верну её вертикально и без лишнего фона.

📋 Команды:
/check — начать обработку полоски
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото тест-полоски
2️⃣ Бот найдёт полоску, довернёт её до вертикали и обрежет фон
3️⃣ Вы получите PNG с полоской крупным планом

💡 Рекомендации:
• Снимайте при хорошем освещении
• Кладите полоску на светлый однотонный фон
• Фото должно быть чётким

⚠️ Бот не различает верх и низ полоски: результат вертикален,
но может быть перевёрнут на 180°.

📋 Команды:
/check — начать обработку
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото тест-полоски."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой обработки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото тест-полоски."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgFallback        = "⚠️ Полоску не удалось уверенно найти, возвращаю кадр целиком."
	msgBadImage        = "⚠️ Не удалось распознать файл как изображение. Попробуйте другое фото."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
)

// Bot представляет Telegram-бота
type Bot struct {
	api        *tgbotapi.BotAPI
	users      *app.UserService
	normalizer *app.NormalizeService
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, normalizer *app.NormalizeService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:        api,
		users:      users,
		normalizer: normalizer,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	ctx := context.Background()

	for update := range updates {
		if update.Message == nil {
			continue
		}

		b.handleMessage(ctx, update.Message)
	}

	return nil
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		b.users.Cancel(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "check":
		b.users.BeginCheck(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)

	case "cancel":
		b.users.Cancel(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handlePhoto прогоняет фото через конвейер и отвечает PNG-документом
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	b.users.SetState(ctx, msg.From.ID, msg.Chat.ID, entity.StateProcessing)
	defer b.users.Cancel(ctx, msg.From.ID, msg.Chat.ID)

	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(photo.FileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	result, err := b.normalizer.ProcessPhoto(ctx, imageData)
	if err != nil {
		log.Printf("Error processing photo: %v", err)
		if errors.Is(err, entity.ErrDecodeFailed) {
			b.sendMessage(msg.Chat.ID, msgBadImage)
		} else {
			b.sendMessage(msg.Chat.ID, msgProcessingError)
		}
		return
	}

	if result.Detection.Fallback {
		b.sendMessage(msg.Chat.ID, msgFallback)
	}

	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{
		Name:  "strip.png",
		Bytes: result.PNG,
	})
	doc.Caption = fmt.Sprintf("Полоска %d×%d px, поворот %.1f°", result.Crop.Width, result.Crop.Height, result.Rotation)
	if _, err := b.api.Send(doc); err != nil {
		log.Printf("Error sending document: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
