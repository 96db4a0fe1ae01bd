package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidatePhoneNumber проверяет и нормализует номер телефона.
// Возвращает номер в формате +7XXXXXXXXXX или ошибку.
// ValidatePhoneNumber checks and normalizes a phone number.
// Returns the number in +7XXXXXXXXXX format or an error.
func ValidatePhoneNumber(phone string) (string, error) {
	phone = strings.ReplaceAll(phone, "\\", "") // Удаляем возможные экранирующие слеши
	phone = strings.TrimSpace(phone)

	// Удаляем все нечисловые символы, кроме начального '+'
	digitsOnly := regexp.MustCompile(`[^\d+]`).ReplaceAllString(phone, "")

	if strings.HasPrefix(digitsOnly, "+") {
		if strings.HasPrefix(digitsOnly, "+7") && len(digitsOnly) == 12 { // +7XXXXXXXXXX
			if regexp.MustCompile(`^\+7\d{10}$`).MatchString(digitsOnly) {
				return digitsOnly, nil
			}
			return "", fmt.Errorf("номер должен быть в формате +7XXXXXXXXXX")
		}
		// Другие международные форматы пока не поддерживаем так строго
		return "", fmt.Errorf("поддерживаются только российские номера в формате +7XXXXXXXXXX или 8XXXXXXXXXX")
	}

	// Если не начинается с '+', предполагаем российский номер
	digitsOnly = regexp.MustCompile(`[^\d]`).ReplaceAllString(phone, "")

	if len(digitsOnly) == 11 && (digitsOnly[0] == '8' || digitsOnly[0] == '7') { // 8XXXXXXXXXX или 7XXXXXXXXXX
		normalized := "+7" + digitsOnly[1:]
		if regexp.MustCompile(`^\+7\d{10}$`).MatchString(normalized) {
			return normalized, nil
		}
		return "", fmt.Errorf("неверный формат номера (ожидалось 11 цифр, начиная с 7 или 8)")
	}
	if len(digitsOnly) == 10 { // XXXXXXXXXX
		normalized := "+7" + digitsOnly
		if regexp.MustCompile(`^\+7\d{10}$`).MatchString(normalized) {
			return normalized, nil
		}
		return "", fmt.Errorf("неверный формат номера (ожидалось 10 цифр)")
	}

	return "", fmt.Errorf("неверный формат номера телефона, укажите в формате +7XXXXXXXXXX или 8XXXXXXXXXX")
}
