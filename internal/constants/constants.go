package constants

// Order Statuses
// Статусы заказа
const (
	STATUS_NEW        = "new"         // Новый заказ, только оформлен
	STATUS_INPROGRESS = "in_progress" // Заказ в обработке
	STATUS_READY      = "ready"       // Заказ собран и готов к выдаче/доставке
	STATUS_COMPLETED  = "completed"   // Заказ выполнен
)

// Buying Types
// Способы получения заказа
const (
	BUYING_TYPE_SELF     = "self_pickup" // Самовывоз
	BUYING_TYPE_DELIVERY = "delivery"    // Доставка
)

// OrderStatuses перечисляет допустимые статусы в порядке жизненного цикла.
// Переходы между статусами на уровне модели не ограничиваются.
var OrderStatuses = []string{
	STATUS_NEW,
	STATUS_INPROGRESS,
	STATUS_READY,
	STATUS_COMPLETED,
}

// BuyingTypes перечисляет допустимые способы получения заказа.
var BuyingTypes = []string{
	BUYING_TYPE_SELF,
	BUYING_TYPE_DELIVERY,
}

// StatusDisplayMap отображает статус заказа в человекочитаемую подпись.
// StatusDisplayMap maps an order status to a human-readable label.
var StatusDisplayMap = map[string]string{
	STATUS_NEW:        "Новый заказ",
	STATUS_INPROGRESS: "Заказ в обработке",
	STATUS_READY:      "Заказ готов",
	STATUS_COMPLETED:  "Заказ выполнен",
}

// BuyingTypeDisplayMap отображает способ получения в подпись.
var BuyingTypeDisplayMap = map[string]string{
	BUYING_TYPE_SELF:     "Самовывоз",
	BUYING_TYPE_DELIVERY: "Доставка",
}

// IsValidOrderStatus проверяет, что строка является известным статусом заказа.
func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidBuyingType проверяет, что строка является известным способом получения.
func IsValidBuyingType(buyingType string) bool {
	for _, bt := range BuyingTypes {
		if bt == buyingType {
			return true
		}
	}
	return false
}
