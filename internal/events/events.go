// Пакет events описывает событие «позиция корзины сохранена».
// Исходная версия вешала глобальный обработчик на уровне процесса;
// здесь подписчики передаются хранилищу явно при конструировании
// (db.InitStore / Store.Subscribe) и вызываются синхронно после
// успешной записи.

package events

import (
	"log"
	"time"

	"github.com/google/uuid"

	"Shop/internal/models"
)

// CartItemEvent — полезная нагрузка уведомления о сохранении позиции корзины.
type CartItemEvent struct {
	ID         uuid.UUID       // идентификатор события, для дедупликации у подписчиков
	Item       models.CartItem // позиция в том виде, в котором она записана
	Created    bool            // true — вставка, false — обновление существующей позиции
	OccurredAt time.Time
}

// Subscriber — обратный вызов подписчика. Вызывается синхронно
// в той же горутине, что и сохранение; ошибки подписчика не влияют
// на уже зафиксированную запись.
type Subscriber func(CartItemEvent)

// NewCartItemEvent собирает событие для только что сохранённой позиции.
func NewCartItemEvent(item models.CartItem, created bool) CartItemEvent {
	return CartItemEvent{
		ID:         uuid.New(),
		Item:       item,
		Created:    created,
		OccurredAt: time.Now(),
	}
}

// LogSubscriber — диагностический подписчик: пишет событие в лог.
// Боевые подписчики (например, отправка уведомлений в бот)
// подключаются тем же способом при старте процесса.
func LogSubscriber(e CartItemEvent) {
	log.Printf("событие %s: позиция корзины #%d (товар #%d, количество %d, сумма %s), created=%t",
		e.ID, e.Item.ID, e.Item.ProductID, e.Item.Quantity, e.Item.TotalPrice.StringFixed(2), e.Created)
}
