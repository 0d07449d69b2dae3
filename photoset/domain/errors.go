package domain

import (
	"errors"
	"fmt"
)

// Classification of storage failures. Callers match these with errors.Is.
var (
	ErrExpectedDirectory = errors.New("expected directory")
	ErrNoPhotosFound     = errors.New("no photos found")
	ErrCannotReadFile    = errors.New("cannot read file")
	ErrCannotWriteFile   = errors.New("cannot write file")
	ErrCannotDecodeImage = errors.New("cannot decode image")
	ErrCannotDecodeInfo  = errors.New("cannot decode info")
)

// StoreError is the error type returned by photo set storage. Every
// failure carries a Kind from the sentinels above and the path it
// concerns; Err holds the underlying cause when there is one.
type StoreError struct {
	Kind error
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Path)
	}
	return fmt.Sprintf("%s %s: %v", e.Kind.Error(), e.Path, e.Err)
}

// Unwrap exposes the kind and the cause, so errors.Is matches either.
func (e *StoreError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func ExpectedDirectory(path string) error {
	return &StoreError{Kind: ErrExpectedDirectory, Path: path}
}

func NoPhotosFound(path string) error {
	return &StoreError{Kind: ErrNoPhotosFound, Path: path}
}

func CannotReadFile(path string, err error) error {
	return &StoreError{Kind: ErrCannotReadFile, Path: path, Err: err}
}

func CannotWriteFile(path string, err error) error {
	return &StoreError{Kind: ErrCannotWriteFile, Path: path, Err: err}
}

func CannotDecodeImage(file string, err error) error {
	return &StoreError{Kind: ErrCannotDecodeImage, Path: file, Err: err}
}

func CannotDecodeInfo(path string, err error) error {
	return &StoreError{Kind: ErrCannotDecodeInfo, Path: path, Err: err}
}
