package services

import (
	"fmt"
	"log"

	"pharmacademy/internal/models"
	"pharmacademy/internal/pdf"
	"pharmacademy/internal/repositories"
)

type LoginLogService interface {
	LoginLogRecorder
	List(filter models.LoginLogFilter) (*models.LoginLogPage, error)
	ExportPDF(filter models.LoginLogFilter) ([]byte, error)
}

type loginLogService struct {
	repo   repositories.LoginLogRepository
	pdfGen pdf.ReportGenerator
}

func NewLoginLogService(repo repositories.LoginLogRepository, pdfGen pdf.ReportGenerator) LoginLogService {
	return &loginLogService{repo: repo, pdfGen: pdfGen}
}

// RecordLogin никогда не возвращает ошибку наружу: журнал не должен
// ломать сам вход (поэтому и сигнатура без error).
func (s *loginLogService) RecordLogin(adminID, status, ip, userAgent string) {
	entry := &models.LoginLog{
		AdminID:   adminID,
		Status:    status,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if err := s.repo.Create(entry); err != nil {
		log.Printf("[login-logs][record] failed for adminID=%s: %v", adminID, err)
	}
}

func (s *loginLogService) List(filter models.LoginLogFilter) (*models.LoginLogPage, error) {
	return s.repo.List(filter)
}

func (s *loginLogService) ExportPDF(filter models.LoginLogFilter) ([]byte, error) {
	// в экспорт идёт одна страница выборки, как и в списке
	page, err := s.repo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("load login logs: %w", err)
	}
	return s.pdfGen.GenerateLoginReport(page.Data)
}
