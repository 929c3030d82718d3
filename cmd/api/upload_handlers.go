package main

import (
	"errors"
	"net/http"

	"movieshelf/proj/internal/services/uploads"
	"movieshelf/proj/internal/storage/blob"
)

// multipartOverhead leaves room for the form framing around the file.
const multipartOverhead = 1 << 20

func (app *Application) uploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, uploads.MaxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(uploads.MaxFileSize); err != nil {
		app.Http.BadRequest(w, r, "request is not a valid multipart form or exceeds the size limit")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		app.Http.BadRequest(w, r, "No file uploaded")
		return
	}
	defer file.Close()

	result, err := app.uploads.UploadImage(
		r.Context(),
		file,
		header.Filename,
		header.Header.Get("Content-Type"),
		header.Size,
	)
	if err != nil {
		switch {
		case errors.Is(err, uploads.ErrFileTooLarge), errors.Is(err, uploads.ErrUnsupportedType):
			app.Http.BadRequest(w, r, err.Error())
		case errors.Is(err, blob.ErrUpstream):
			app.Http.BadRequest(w, r, "Failed to upload image: "+err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{
		"image_url": result.ImageURL,
		"filename":  result.Filename,
	}, "Image uploaded successfully")
}
