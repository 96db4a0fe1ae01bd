package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"Shop/internal/constants"
)

func TestCustomerRefValidate(t *testing.T) {
	tests := []struct {
		name    string
		ref     CustomerRef
		wantErr bool
	}{
		{"покупатель с сайта", SiteCustomerRef(1), false},
		{"покупатель из бота", BotCustomerRef(2), false},
		{"пустая ссылка", CustomerRef{}, true},
		{"нулевой id", CustomerRef{Kind: CustomerFromBot}, true},
		{"неизвестный тип", CustomerRef{Kind: "admin", ID: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ref.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrderValidate(t *testing.T) {
	valid := Order{
		Customer:   BotCustomerRef(3),
		Name:       "Иван",
		Phone:      "+79991234567",
		Status:     constants.STATUS_NEW,
		BuyingType: constants.BUYING_TYPE_SELF,
	}
	assert.NoError(t, valid.Validate())

	noCustomer := valid
	noCustomer.Customer = CustomerRef{}
	assert.Error(t, noCustomer.Validate())

	noName := valid
	noName.Name = ""
	assert.Error(t, noName.Validate())

	badStatus := valid
	badStatus.Status = "shipped"
	assert.Error(t, badStatus.Validate())

	badBuyingType := valid
	badBuyingType.BuyingType = "courier"
	assert.Error(t, badBuyingType.Validate())
}

func TestCartItemQuantityValidation(t *testing.T) {
	item := CartItem{CustomerID: 1, CartID: 2, ProductID: 3, Quantity: -1}
	assert.Error(t, Validate.Struct(item))

	item.Quantity = 1
	assert.NoError(t, Validate.Struct(item))
}
