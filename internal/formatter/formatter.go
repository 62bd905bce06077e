// package formatter exports the ranked album list to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/nlandais/top50/internal/models"
	"github.com/nlandais/top50/internal/shared"
)

// ExportToCSV renders the ranked list as CSV with columns: Rank, Title, Artist, Year, Genre, URL
func ExportToCSV(albums []models.Album) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rank", "Title", "Artist", "Year", "Genre", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, album := range albums {
		record := []string{
			strconv.Itoa(i + 1),
			album.Title,
			album.Artist,
			strconv.Itoa(album.Year),
			album.Genre,
			album.ExternalURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders the ranked list as Markdown with optional cover image
func ExportToMarkdown(albums []models.Album, title, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Top 50 Albums"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	buf.WriteString(fmt.Sprintf("**Albums**: %d\n\n", len(albums)))

	buf.WriteString("## Ranking\n\n")
	for i, album := range albums {
		yearPart := ""
		if album.Year > 0 {
			yearPart = fmt.Sprintf(" (%d)", album.Year)
		}
		if album.ExternalURL != "" {
			buf.WriteString(fmt.Sprintf("%d. [%s - %s](%s)%s\n", i+1, album.Artist, album.Title, album.ExternalURL, yearPart))
		} else {
			buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, album.Artist, album.Title, yearPart))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText renders the ranked list as plain text, the form used for
// copy-paste sharing.
func ExportToText(albums []models.Album, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Top 50 Albums"
	}
	buf.WriteString(title + "\n\n")

	for i, album := range albums {
		if album.Year > 0 {
			buf.WriteString(fmt.Sprintf("%d. %s - %s (%d)\n", i+1, album.Artist, album.Title, album.Year))
		} else {
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, album.Artist, album.Title))
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the ranked list as pretty-printed JSON.
func ExportToJSON(albums []models.Album) ([]byte, error) {
	return shared.MarshalJSON(albums, true)
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// WriteCSVExport writes the ranked list as {base}_albums.csv next to a
// {base}.json dump. Returns the created file paths.
func WriteCSVExport(albums []models.Album, baseFilepath string) ([]string, error) {
	if baseFilepath == "" {
		baseFilepath = "top50"
	}

	csvData, err := ExportToCSV(albums)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	csvFile := baseFilepath + "_albums.csv"
	if err := os.WriteFile(csvFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	jsonData, err := ExportToJSON(albums)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JSON: %w", err)
	}

	jsonFile := baseFilepath + ".json"
	if err := os.WriteFile(jsonFile, jsonData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write JSON file: %w", err)
	}

	return []string{csvFile, jsonFile}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport writes the ranked list to {dir}/README.md, optionally
// downloading a cover image as {dir}/cover.jpg.
func WriteMarkdownExport(albums []models.Album, outputDir, title, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "top50"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := fmt.Sprintf("%s/%s", outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(albums, title, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport writes the ranked list as plain text, defaulting to
// top50.txt.
func WriteTextExport(albums []models.Album, filepath, title string) (string, error) {
	if filepath == "" {
		filepath = "top50.txt"
	}

	textData, err := ExportToText(albums, title)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
