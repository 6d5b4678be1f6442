package game

import (
	"github.com/efreeman/world-war/api/internal/model"
)

// CountryCatalog returns the static country list with base stats and map
// positions. Occupancy fields start empty.
func CountryCatalog() []model.Country {
	countries := []model.Country{
		{ID: "usa", Name: "United States", Flag: "🇺🇸", BasePower: 95, MapX: 20.0, MapY: 39.0},
		{ID: "rus", Name: "Russia", Flag: "🇷🇺", BasePower: 90, MapX: 61.0, MapY: 30.0},
		{ID: "chn", Name: "China", Flag: "🇨🇳", BasePower: 92, MapX: 84.0, MapY: 35.0},
		{ID: "deu", Name: "Germany", Flag: "🇩🇪", BasePower: 80, MapX: 50.5, MapY: 27.0},
		{ID: "gbr", Name: "United Kingdom", Flag: "🇬🇧", BasePower: 78, MapX: 46.0, MapY: 25.5},
		{ID: "fra", Name: "France", Flag: "🇫🇷", BasePower: 77, MapX: 48.0, MapY: 29.0},
		{ID: "jpn", Name: "Japan", Flag: "🇯🇵", BasePower: 75, MapX: 91.0, MapY: 36.0},
		{ID: "ind", Name: "India", Flag: "🇮🇳", BasePower: 74, MapX: 73.0, MapY: 44.0},
		{ID: "bra", Name: "Brazil", Flag: "🇧🇷", BasePower: 65, MapX: 33.0, MapY: 62.0},
		{ID: "can", Name: "Canada", Flag: "🇨🇦", BasePower: 64, MapX: 22.0, MapY: 28.0},
		{ID: "aus", Name: "Australia", Flag: "🇦🇺", BasePower: 62, MapX: 88.0, MapY: 68.0},
		{ID: "ita", Name: "Italy", Flag: "🇮🇹", BasePower: 61, MapX: 51.0, MapY: 32.0},
		{ID: "esp", Name: "Spain", Flag: "🇪🇸", BasePower: 58, MapX: 46.5, MapY: 33.0},
		{ID: "tur", Name: "Turkey", Flag: "🇹🇷", BasePower: 57, MapX: 57.0, MapY: 34.0},
		{ID: "kor", Name: "South Korea", Flag: "🇰🇷", BasePower: 56, MapX: 88.5, MapY: 35.5},
		{ID: "sau", Name: "Saudi Arabia", Flag: "🇸🇦", BasePower: 54, MapX: 60.0, MapY: 42.0},
		{ID: "irn", Name: "Iran", Flag: "🇮🇷", BasePower: 53, MapX: 62.0, MapY: 38.0},
		{ID: "egy", Name: "Egypt", Flag: "🇪🇬", BasePower: 50, MapX: 55.0, MapY: 41.0},
		{ID: "zaf", Name: "South Africa", Flag: "🇿🇦", BasePower: 48, MapX: 53.0, MapY: 70.0},
		{ID: "mex", Name: "Mexico", Flag: "🇲🇽", BasePower: 47, MapX: 18.0, MapY: 45.0},
		{ID: "arg", Name: "Argentina", Flag: "🇦🇷", BasePower: 45, MapX: 30.0, MapY: 74.0},
		{ID: "pol", Name: "Poland", Flag: "🇵🇱", BasePower: 44, MapX: 53.0, MapY: 26.5},
		{ID: "ukr", Name: "Ukraine", Flag: "🇺🇦", BasePower: 43, MapX: 56.0, MapY: 28.0},
		{ID: "idn", Name: "Indonesia", Flag: "🇮🇩", BasePower: 42, MapX: 82.0, MapY: 57.0},
		{ID: "pak", Name: "Pakistan", Flag: "🇵🇰", BasePower: 41, MapX: 70.0, MapY: 39.0},
		{ID: "nga", Name: "Nigeria", Flag: "🇳🇬", BasePower: 40, MapX: 50.0, MapY: 52.0},
		{ID: "swe", Name: "Sweden", Flag: "🇸🇪", BasePower: 39, MapX: 52.0, MapY: 20.0},
		{ID: "nor", Name: "Norway", Flag: "🇳🇴", BasePower: 38, MapX: 50.0, MapY: 19.0},
		{ID: "grc", Name: "Greece", Flag: "🇬🇷", BasePower: 36, MapX: 54.0, MapY: 34.5},
		{ID: "vnm", Name: "Vietnam", Flag: "🇻🇳", BasePower: 35, MapX: 82.0, MapY: 47.0},
	}
	for i := range countries {
		countries[i].Resources = bonusFor(countries[i].BasePower)
	}
	return countries
}

// bonusFor scales the selection bonus with the country's base power.
func bonusFor(power int) model.Resources {
	return model.Resources{
		model.ResourceOil:      power * 2,
		model.ResourceFood:     power * 3,
		model.ResourceMetals:   power * 2,
		model.ResourceSoldiers: power,
		model.ResourceDefense:  power / 5,
	}
}
