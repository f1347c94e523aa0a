package service

import (
	"context"
	"fmt"
	"strings"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"

	books "google.golang.org/api/books/v1"
	"google.golang.org/api/option"
)

type bookService struct {
	bookRepo repository.BookRepository
	loanRepo repository.LoanRepository
}

func NewBookService(bookRepo repository.BookRepository, loanRepo repository.LoanRepository) BookService {
	return &bookService{bookRepo: bookRepo, loanRepo: loanRepo}
}

func (s *bookService) CreateBook(ctx context.Context, book *domain.Book) error {
	if err := validateBook(book); err != nil {
		return err
	}
	if book.Genre == "" {
		book.Genre = domain.GenreAutre
	}
	// A new title starts fully on the shelf.
	if book.AvailableCopies == 0 {
		book.AvailableCopies = book.TotalCopies
	}
	return s.bookRepo.Create(ctx, book)
}

func (s *bookService) GetBook(ctx context.Context, id int32) (*domain.Book, error) {
	return s.bookRepo.GetByID(ctx, id)
}

// UpdateBook edits catalog fields and resizes the shelf. The shelf change is
// a relative storage-side shift, never an absolute write computed from a
// prior read, so a reservation landing mid-edit keeps its copy.
func (s *bookService) UpdateBook(ctx context.Context, book *domain.Book) error {
	if err := validateBook(book); err != nil {
		return err
	}
	if err := s.bookRepo.ResizeStock(ctx, book.ID, book.TotalCopies); err != nil {
		return err
	}
	if err := s.bookRepo.Update(ctx, book); err != nil {
		return err
	}
	fresh, err := s.bookRepo.GetByID(ctx, book.ID)
	if err != nil {
		return err
	}
	*book = *fresh
	return nil
}

// DeleteBook forbids removal while any loan still references the book in an
// open state.
func (s *bookService) DeleteBook(ctx context.Context, id int32) error {
	open, err := s.loanRepo.CountOpenByBook(ctx, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return domain.ErrBookHasOpenLoans
	}
	return s.bookRepo.Delete(ctx, id)
}

func (s *bookService) ListBooks(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error) {
	if filter.Genre != "" && !filter.Genre.Valid() {
		return nil, domain.ErrInvalidGenre
	}
	return s.bookRepo.List(ctx, filter)
}

// LookupISBN fetches title metadata from the public Google Books volumes API
// to prefill the librarian's catalog form.
func (s *bookService) LookupISBN(ctx context.Context, isbn string) (*domain.BookInfo, error) {
	svc, err := books.NewService(ctx, option.WithoutAuthentication())
	if err != nil {
		return nil, fmt.Errorf("create books client: %w", err)
	}

	res, err := svc.Volumes.List("isbn:" + isbn).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("query google books: %w", err)
	}
	if len(res.Items) == 0 || res.Items[0].VolumeInfo == nil {
		return nil, domain.ErrBookNotFound
	}

	info := res.Items[0].VolumeInfo
	out := &domain.BookInfo{
		Title:       info.Title,
		Author:      "Auteur inconnu",
		Description: info.Description,
		Genre:       "Inconnu",
		ISBN:        isbn,
	}
	if len(info.Authors) > 0 {
		out.Author = strings.Join(info.Authors, ", ")
	}
	if len(info.Categories) > 0 {
		out.Genre = info.Categories[0]
	}
	if info.ImageLinks != nil {
		out.CoverImage = info.ImageLinks.Thumbnail
	}
	return out, nil
}

func validateBook(b *domain.Book) error {
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(b.Author) == "" {
		return fmt.Errorf("author is required")
	}
	if b.TotalCopies < 1 {
		return fmt.Errorf("total copies must be at least 1")
	}
	if b.Genre != "" && !b.Genre.Valid() {
		return domain.ErrInvalidGenre
	}
	return nil
}
