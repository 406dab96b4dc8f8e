package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/inbtp/appariteur/pkg/student"
)

// CreateStudent submits one student and returns the id assigned by the
// registrar.
func (cli *Client) CreateStudent(ctx context.Context, req student.CreateRequest) (string, error) {
	var created student.Record
	if err := cli.do(ctx, http.MethodPost, "/etudiants", req, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", Error.New("no student id returned")
	}
	return created.ID, nil
}

func (cli *Client) DeleteStudent(ctx context.Context, id string) error {
	return cli.do(ctx, http.MethodDelete, "/etudiants/"+url.PathEscape(id), nil, nil)
}

// Students lists the students of a promotion, or every student when
// promotionID is empty.
func (cli *Client) Students(ctx context.Context, promotionID string) ([]student.Record, error) {
	type findRequest struct {
		PromotionID string `json:"promotionId,omitempty"`
	}

	var records []student.Record
	if err := cli.do(ctx, http.MethodPost, "/etudiants/find", findRequest{PromotionID: promotionID}, &records); err != nil {
		return nil, err
	}
	return records, nil
}
