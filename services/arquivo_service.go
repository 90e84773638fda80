package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"tabelionato_app_go/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MaxUploadSize is the largest digitized document accepted (20MB)
const MaxUploadSize = 20 * 1024 * 1024

var (
	// ErrArquivoNotFound is returned when the file does not belong to the protocol
	ErrArquivoNotFound = errors.New("arquivo não encontrado")
	// ErrArquivoInvalido is returned for empty, oversized or unsupported files
	ErrArquivoInvalido = errors.New("arquivo inválido")
)

// allowedUploadTypes are the sniffed content types accepted for digitized documents
var allowedUploadTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// ValidateUpload checks size and sniffs the content type of an uploaded file
func ValidateUpload(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size == 0 {
		return "", fmt.Errorf("%w: arquivo vazio", ErrArquivoInvalido)
	}
	if fileHeader.Size > MaxUploadSize {
		return "", fmt.Errorf("%w: tamanho máximo de 20MB", ErrArquivoInvalido)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file content: %w", err)
	}

	contentType := http.DetectContentType(head[:n])
	if !allowedUploadTypes[contentType] {
		return "", fmt.Errorf("%w: apenas PDF, JPEG ou PNG", ErrArquivoInvalido)
	}
	return contentType, nil
}

// SaveArquivo stores an uploaded file and records it on the protocol.
// Notarial acts get DocumentosDigitalizados set on their deed details.
func SaveArquivo(ctx context.Context, db *gorm.DB, storage StorageProvider, actor *models.User, protocoloID string, fileHeader *multipart.FileHeader) (*models.ArquivoDigitalizado, error) {
	if err := ensureProtocolo(db, protocoloID); err != nil {
		return nil, err
	}
	contentType, err := ValidateUpload(fileHeader)
	if err != nil {
		return nil, err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	key := GenerateArquivoKey(protocoloID, fileHeader.Filename)
	result, err := storage.UploadReader(ctx, src, key, contentType, fileHeader.Size)
	if err != nil {
		return nil, err
	}

	arquivo := &models.ArquivoDigitalizado{
		ProtocoloID:  protocoloID,
		StorageKey:   result.Key,
		NomeOriginal: sanitizeFilename(fileHeader.Filename),
		Tamanho:      result.FileSize,
		MimeType:     contentType,
		EnviadoPorID: &actor.ID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(arquivo).Error; err != nil {
			return err
		}
		return tx.Model(&models.DadosEscritura{}).
			Where("protocolo_id = ?", protocoloID).
			Update("documentos_digitalizados", true).Error
	})
	if err != nil {
		if delErr := storage.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("failed to remove orphaned upload")
		}
		return nil, fmt.Errorf("failed to record file: %w", err)
	}
	return arquivo, nil
}

// GetArquivo loads a file record of the protocol
func GetArquivo(db *gorm.DB, protocoloID, arquivoID string) (*models.ArquivoDigitalizado, error) {
	var arquivo models.ArquivoDigitalizado
	err := db.Where("id = ? AND protocolo_id = ?", arquivoID, protocoloID).First(&arquivo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArquivoNotFound
		}
		return nil, err
	}
	return &arquivo, nil
}

// DeleteArquivo removes the record and then the stored object
func DeleteArquivo(ctx context.Context, db *gorm.DB, storage StorageProvider, protocoloID, arquivoID string) (*models.ArquivoDigitalizado, error) {
	arquivo, err := GetArquivo(db, protocoloID, arquivoID)
	if err != nil {
		return nil, err
	}
	if err := db.Delete(arquivo).Error; err != nil {
		return nil, fmt.Errorf("failed to delete file record: %w", err)
	}
	if err := storage.Delete(ctx, arquivo.StorageKey); err != nil {
		log.Warn().Err(err).Str("key", arquivo.StorageKey).Msg("failed to delete stored file")
	}
	return arquivo, nil
}

// DeleteStoredFiles removes objects left behind by a deleted protocol
func DeleteStoredFiles(ctx context.Context, storage StorageProvider, keys []string) {
	for _, key := range keys {
		if err := storage.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to delete stored file")
		}
	}
}

// sanitizeFilename keeps the base name and drops characters that would
// break a Content-Disposition header
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r == '"' || r == '\r' || r == '\n' {
			return -1
		}
		return r
	}, name)
	if name == "." || name == "/" || name == "" {
		return "arquivo"
	}
	return name
}
