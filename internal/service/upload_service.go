package service

import (
	"context"
	"io"

	"boardinghouse/internal/auth"
	"boardinghouse/internal/storage"
)

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, folder storage.Folder, userID, filename string, body io.Reader) (string, error)
}

var signedIn = []auth.Role{auth.RoleAdmin, auth.RoleLandlord, auth.RoleTenant}

type UploadService interface {
	UploadMeterPhoto(ctx context.Context, p auth.Principal, filename string, body io.Reader) (string, error)
	UploadPaymentReceipt(ctx context.Context, p auth.Principal, filename string, body io.Reader) (string, error)
}

type uploadService struct {
	images ImageUploader
}

func NewUploadService(images ImageUploader) UploadService {
	return &uploadService{images: images}
}

func (s *uploadService) UploadMeterPhoto(ctx context.Context, p auth.Principal, filename string, body io.Reader) (string, error) {
	if err := auth.Require(p, signedIn...); err != nil {
		return "", err
	}
	return s.images.UploadImage(ctx, storage.MeterPhotos, p.UserID, filename, body)
}

func (s *uploadService) UploadPaymentReceipt(ctx context.Context, p auth.Principal, filename string, body io.Reader) (string, error) {
	if err := auth.Require(p, signedIn...); err != nil {
		return "", err
	}
	return s.images.UploadImage(ctx, storage.PaymentReceipts, p.UserID, filename, body)
}
