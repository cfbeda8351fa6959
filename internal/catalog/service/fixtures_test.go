package service

import "github.com/Abinayasri1011/noolsakaa/internal/catalog/model"

func book(title, author, genre string, rating float64, count int) model.Entry {
	return model.Entry{Title: title, Author: author, Genre: genre, AverageRating: rating, NumberOfRatings: count}
}

// threeBookCatalog holds two Kalki books and one Jeyamohan book.
func threeBookCatalog() *model.Catalog {
	return NewCatalog("three", nil, []model.Entry{
		book("Book A", "Kalki", "Fiction", 4.5, 100),
		book("Book B", "Kalki", "Fiction", 4.0, 50),
		book("Book C", "Jeyamohan", "Fiction", 4.8, 200),
	})
}

func stallCatalog() *model.Catalog {
	return NewCatalog("stall", nil, []model.Entry{
		book("Ponniyin Selvan", "Kalki", "Historical", 4.8, 900),           // 0
		book("Sivagamiyin Sabatham", "Kalki", "Historical", 4.6, 500),      // 1
		book("Parthiban Kanavu", "Kalki", "Historical", 4.2, 300),          // 2
		book("Alai Osai", "Kalki", "Historical", 4.4, 250),                 // 3
		book("Thyagabhoomi", "Kalki", "Historical", 3.9, 100),              // 4
		book("Vennira Iravugal", "Jeyamohan", "Historical", 4.7, 400),      // 5
		book("Malgudi Days", "R. K. Narayan", "Historical", 4.1, 800),      // 6
		book("The Guide", "R. K. Narayan", "Fiction", 4.0, 700),            // 7
		book("War and Peace", "Leo Tolstoy", "Historical", 4.5, 1000),      // 8
		book("Wolf Hall", "Hilary Mantel", "Historical", 4.5, 1200),        // 9
		book("Gitanjali", "Rabindranath Tagore", "Poetry", 4.9, 300),       // 10
	})
}

func titles(entries []model.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}
