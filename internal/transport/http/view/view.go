package view

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"restaurant-directory/internal/domain"
)

//go:embed templates
var files embed.FS

var funcs = template.FuncMap{
	"stars":     Stars,
	"average":   AverageRating,
	"pluralize": Pluralize,
	"ratings": func() []int {
		out := make([]int, 0, domain.RatingMax-domain.RatingMin+1)
		for i := domain.RatingMin; i <= domain.RatingMax; i++ {
			out = append(out, i)
		}
		return out
	},
}

// Templates 解析全部页面；页面名即 {{define}} 的名字，如 "restaurants/index"
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html", "templates/*/*.html")
}

func Stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > domain.RatingMax {
		n = domain.RatingMax
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", domain.RatingMax-n)
}

// AverageRating 没有评论时返回 "N/A"
func AverageRating(reviews []domain.Review) string {
	if len(reviews) == 0 {
		return "N/A"
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(reviews)))
}

func Pluralize(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
