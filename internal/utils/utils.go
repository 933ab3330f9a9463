package utils

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"calebs/ccsWebsite/internal/models"
)

const (
	cssStartMarker = "/* Color variables will be generated here */"
	cssEndMarker   = "/* End Color variables */"
)

// LoadReviews reads the published review list from a YAML file.
func LoadReviews(path string) ([]models.Review, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read reviews file: %w", err)
	}

	var doc struct {
		Reviews []models.Review `yaml:"reviews"`
	}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse reviews from %s: %w", path, err)
	}

	for i, r := range doc.Reviews {
		if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Text) == "" {
			return nil, fmt.Errorf("review %d in %s: name and text are required", i+1, path)
		}
		if r.Rating < 1 || r.Rating > 5 {
			return nil, fmt.Errorf("review %d (%s) in %s: rating %d is outside 1..5", i+1, r.Name, path, r.Rating)
		}
	}
	return doc.Reviews, nil
}

// GenerateColorScheme writes the brand colors, plus the dominant colors of
// the logo when logoPath names an image, between the color markers of the
// stylesheet at cssPath.
func GenerateColorScheme(brand models.Brand, logoPath, cssPath string) error {
	cssVars := []string{
		fmt.Sprintf("--brand-primary: %s;", brand.Primary),
		fmt.Sprintf("--brand-dark: %s;", brand.Dark),
		fmt.Sprintf("--brand-light: %s;", brand.Light),
	}

	if logoPath != "" {
		colors, err := logoColors(logoPath, 5)
		if err != nil {
			return err
		}
		for i, c := range colors {
			r, g, b, _ := c.RGBA()
			cssVars = append(cssVars, fmt.Sprintf("--color-%d: rgb(%d, %d, %d);", i+1, r/257, g/257, b/257))
		}
	}

	cssContent, err := os.ReadFile(cssPath)
	if err != nil {
		return fmt.Errorf("failed to read CSS file: %w", err)
	}

	cssString := replaceColorBlock(string(cssContent), cssVars)
	if err := os.WriteFile(cssPath, []byte(cssString), 0644); err != nil {
		return fmt.Errorf("failed to write CSS variables to file: %w", err)
	}
	return nil
}

func replaceColorBlock(css string, cssVars []string) string {
	block := "\n    " + strings.Join(cssVars, "\n    ") + "\n    "

	start := strings.Index(css, cssStartMarker)
	if start < 0 {
		return strings.Replace(css, ":root {", ":root {\n    "+cssStartMarker+block+cssEndMarker, 1)
	}
	start += len(cssStartMarker)

	end := strings.Index(css[start:], cssEndMarker)
	if end < 0 {
		return css[:start] + block + cssEndMarker + css[start:]
	}
	return css[:start] + block + css[start+end:]
}

func logoColors(path string, count int) ([]color.Color, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open logo: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode logo %s: %w", path, err)
	}
	return getDominantColors(img, count), nil
}

// getDominantColors returns the count most frequent opaque colors of img.
func getDominantColors(img image.Image, count int) []color.Color {
	bounds := img.Bounds()
	colorCounts := make(map[color.RGBA]int)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if c.A == 0 {
				continue
			}
			colorCounts[c]++
		}
	}

	type colorFreq struct {
		color color.RGBA
		freq  int
	}
	freqs := make([]colorFreq, 0, len(colorCounts))
	for c, f := range colorCounts {
		freqs = append(freqs, colorFreq{color: c, freq: f})
	}
	sort.Slice(freqs, func(i, j int) bool {
		if freqs[i].freq != freqs[j].freq {
			return freqs[i].freq > freqs[j].freq
		}
		a, b := freqs[i].color, freqs[j].color
		return uint32(a.R)<<16|uint32(a.G)<<8|uint32(a.B) < uint32(b.R)<<16|uint32(b.G)<<8|uint32(b.B)
	})

	var dominantColors []color.Color
	for i := 0; i < count && i < len(freqs); i++ {
		dominantColors = append(dominantColors, freqs[i].color)
	}
	return dominantColors
}

// CopyDir copies the tree at src into dst. A missing src is not an error.
func CopyDir(src, dst string) error {
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		destPath := filepath.Join(dst, relPath)

		if d.IsDir() {
			return os.MkdirAll(destPath, 0755)
		}
		return copyFile(path, destPath)
	})
	if err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(destFile, srcFile); err != nil {
		destFile.Close()
		return err
	}
	return destFile.Close()
}
