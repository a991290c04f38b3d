package service

import "github.com/stemsi/kelas-backend/internal/model"

// BuildRoster groups a class's assignments by student name. Students appear in
// the order they first submitted, and each student's URLs keep submission
// order. The second result is the longest URL list, 0 for no assignments.
func BuildRoster(assignments []model.Assignment) ([]model.StudentSubmissions, int) {
	roster := []model.StudentSubmissions{}
	index := make(map[string]int)
	maxURLs := 0

	for _, a := range assignments {
		i, seen := index[a.StudentName]
		if !seen {
			i = len(roster)
			index[a.StudentName] = i
			roster = append(roster, model.StudentSubmissions{Name: a.StudentName})
		}
		roster[i].URLs = append(roster[i].URLs, a.URL)
		if n := len(roster[i].URLs); n > maxURLs {
			maxURLs = n
		}
	}

	return roster, maxURLs
}
