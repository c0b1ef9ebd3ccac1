package service

import "strings"

// GroupKey строит ключ группировки для хранилища изображений:
// из имени мотоцикла и модели убираются все пробелы, части соединяются
// дефисом. "Royal Enfield" + "Himalayan" -> "RoyalEnfield-Himalayan"
func GroupKey(bikeName, modelName string) string {
	return stripSpaces(bikeName) + "-" + stripSpaces(modelName)
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
