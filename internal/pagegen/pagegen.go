package pagegen

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"calebs/ccsWebsite/internal/config"
	"calebs/ccsWebsite/internal/controller"
	"calebs/ccsWebsite/internal/models"
)

var partials = []string{
	"partials/header.html",
	"partials/navbar.html",
	"partials/review_modal.html",
	"partials/footer.html",
}

// PageData is everything the templates can see.
type PageData struct {
	Title    string
	Brand    models.Brand
	Nav      []models.NavItem
	Services []models.Service
	Packages []models.PricePackage
	Rates    []models.Rate
	Reviews  []models.Review

	// State is what the page shows before the script runs.
	State controller.State

	EnquiryAction string
	ReviewAction  string
	ReviewFormTag string

	TableMaxWidth int
	CloseDelayMS  int64
	Year          int
}

// NewPageData assembles the page from configuration and the seed reviews.
func NewPageData(cfg *config.Config, reviews []models.Review) PageData {
	return PageData{
		Title:         cfg.Brand.Name + " | " + cfg.Brand.Tagline,
		Brand:         cfg.Brand,
		Nav:           cfg.Nav,
		Services:      Services,
		Packages:      Packages,
		Rates:         Rates,
		Reviews:       reviews,
		State:         controller.Initial(false),
		EnquiryAction: cfg.FormAction("enquiry"),
		ReviewAction:  cfg.FormAction("review"),
		ReviewFormTag: models.ReviewFormName,
		TableMaxWidth: controller.TableMaxWidth,
		CloseDelayMS:  controller.ReviewCloseDelay.Milliseconds(),
		Year:          time.Now().Year(),
	}
}

var funcs = template.FuncMap{
	// stars returns a slice to range over, one element per star.
	"stars": func(n int) []struct{} {
		return make([]struct{}, n)
	},
	"active": func(s controller.State, id string) bool {
		return s.ActiveSectionID == id
	},
}

// Generator renders pages from a template directory.
type Generator struct {
	TemplatesDir string
	Log          *zap.Logger
}

// GeneratePage parses templateName with the shared partials and writes the
// result to outputDir under the same name.
func (g Generator) GeneratePage(outputDir, templateName string, data PageData) error {
	files := []string{filepath.Join(g.TemplatesDir, templateName)}
	for _, p := range partials {
		files = append(files, filepath.Join(g.TemplatesDir, p))
	}

	name := filepath.Base(templateName)
	tmpl, err := template.New(name).Funcs(funcs).ParseFiles(files...)
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	outputPath := filepath.Join(outputDir, templateName)
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	defer file.Close()

	if err := tmpl.ExecuteTemplate(file, name, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	if g.Log != nil {
		g.Log.Info("generated page", zap.String("path", outputPath))
	}
	return nil
}
