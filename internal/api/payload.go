package api

import (
	"bytes"
	"encoding/json"

	"github.com/noah-isme/agri-dcp-console/internal/entity"
	"github.com/noah-isme/agri-dcp-console/internal/models"
	appErrors "github.com/noah-isme/agri-dcp-console/pkg/errors"
)

// DecodePayload parses a raw JSON body into the typed record struct for
// the given kind, rejecting unknown fields so typos surface before the
// request is sent.
func DecodePayload(kind entity.Descriptor, raw []byte) (any, error) {
	var target any
	switch kind.Name {
	case entity.Farmer.Name:
		target = &models.Farmer{}
	case entity.Equipment.Name:
		target = &models.Equipment{}
	case entity.HomeGarden.Name:
		target = &models.HomeGarden{}
	case entity.CSAAgriculture.Name:
		target = &models.CSAAgriculture{}
	case entity.AgroWell.Name:
		target = &models.AgroWell{}
	case entity.PoultryFarming.Name:
		target = &models.PoultryFarming{}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown entity kind "+kind.Name)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+kind.Name+" payload")
	}
	return target, nil
}
