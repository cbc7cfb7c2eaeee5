package repository

import "github.com/mmeshcher/clubsite-analytics/internal/model"

// DemoClubID задаёт идентификатор единственного клуба микросайта.
const DemoClubID = "club-1"

// DemoClub возвращает клуб, которым заполняется пустое хранилище. Данные совпадают с начальной миграцией.
func DemoClub() model.Club {
	return model.Club{
		ID:   DemoClubID,
		Name: "Pádel Arena Godoy",
		City: "Godoy Cruz, Mendoza",
		Courts: []model.Court{
			{ID: "c1", Name: "Cancha 1", Surface: "Césped sintético", Indoor: false},
			{ID: "c2", Name: "Cancha 2", Surface: "Césped sintético", Indoor: true},
			{ID: "c3", Name: "Cancha 3", Surface: "Muro", Indoor: false},
		},
		Merch: []model.MerchItem{
			{ID: "m1", Name: "Remera oficial", Price: 14990, Stock: 32},
			{ID: "m2", Name: "Gorra del club", Price: 9990, Stock: 12},
			{ID: "m3", Name: "Grip PRO x3", Price: 6990, Stock: 50},
		},
		Settings: model.Settings{
			SlotMinutes:       60,
			OpenHour:          8,
			CloseHour:         23,
			PrepaymentPercent: 30,
			CancellationHours: 6,
		},
	}
}
