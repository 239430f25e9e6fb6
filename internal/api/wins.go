package api

import (
	"context"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/walloffame/wof/internal/common"
	"github.com/walloffame/wof/internal/models"
)

// FetchAllWins lists every win. It does not need a session.
func (c *Client) FetchAllWins(ctx context.Context) ([]models.WinRecord, error) {
	status, body, err := c.do(ctx, call{
		op:         "fetchAllWins",
		method:     http.MethodGet,
		path:       winsPath,
		defaultMsg: msgFetchWins,
	})
	if err != nil {
		return nil, err
	}

	var wins []models.WinRecord
	if err := decode("fetchAllWins", status, body, &wins); err != nil {
		return nil, err
	}
	return wins, nil
}

// FetchMyWins lists the wins of the logged in user.
func (c *Client) FetchMyWins(ctx context.Context) ([]models.WinRecord, error) {
	status, body, err := c.do(ctx, call{
		op:         "fetchMyWins",
		method:     http.MethodGet,
		path:       myWinsPath,
		protected:  true,
		defaultMsg: msgFetchMyWins,
	})
	if err != nil {
		return nil, err
	}

	var wins []models.WinRecord
	if err := decode("fetchMyWins", status, body, &wins); err != nil {
		return nil, err
	}
	return wins, nil
}

// AddWin submits a new win. A *models.WinForm is sent as multipart form
// data; any other payload is sent as JSON. The request is never retried,
// so a transport error leaves it unknown whether the win was created.
func (c *Client) AddWin(ctx context.Context, payload any) (models.WinRecord, error) {
	var args common.HTTPArguments

	switch p := payload.(type) {
	case *models.WinForm:
		args = multipartArguments(p)
	case models.WinForm:
		args = multipartArguments(&p)
	default:
		args.Body = payload
	}

	status, body, err := c.do(ctx, call{
		op:         "addWin",
		method:     http.MethodPost,
		path:       winsPath,
		protected:  true,
		defaultMsg: msgAddWin,
		args:       args,
	})
	if err != nil {
		return nil, err
	}

	var win models.WinRecord
	if err := decode("addWin", status, body, &win); err != nil {
		return nil, err
	}
	return win, nil
}

func multipartArguments(form *models.WinForm) common.HTTPArguments {
	fields := form.Fields
	if fields == nil {
		fields = map[string]string{}
	}

	args := common.HTTPArguments{FormFields: fields}

	for _, file := range form.Files {
		contentType := file.ContentType
		if len(contentType) == 0 {
			contentType = mime.TypeByExtension(filepath.Ext(file.FileName))
		}
		if len(contentType) == 0 {
			contentType = "application/octet-stream"
		}
		args.FormFiles = append(args.FormFiles, common.MultipartFile{
			Param:       file.Field,
			FileName:    file.FileName,
			ContentType: contentType,
			Reader:      file.Reader,
		})
	}

	return args
}
