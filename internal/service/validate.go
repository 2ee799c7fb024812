package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/videohub/pkg/apperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type reactionInput struct {
	Kind       string `validate:"required,oneof=like dislike"`
	TargetType string `validate:"required,oneof=video comment community_post"`
	TargetID   string `validate:"required,uuid"`
	ActorID    string `validate:"required,uuid"`
}

type subscriptionInput struct {
	SubscriberID string `validate:"required,uuid"`
	ChannelID    string `validate:"required,uuid"`
}

func checkStruct(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe.Field(), fe.Tag()))
		}
		return apperr.InvalidArgument("%s", strings.Join(msgs, "; "))
	}
	return apperr.InvalidArgument("%v", err)
}

// checkID 校验单个 id；optional 为真时允许空串
func checkID(field, id string, optional bool) error {
	if optional && id == "" {
		return nil
	}
	if err := validate.Var(id, "required,uuid"); err != nil {
		return apperr.InvalidArgument("%s", fieldMessage(field, "uuid"))
	}
	return nil
}

func checkHandle(handle string) error {
	if err := validate.Var(handle, "required,max=64,printascii"); err != nil {
		return apperr.InvalidArgument("handle is required")
	}
	return nil
}

func fieldMessage(field, tag string) string {
	switch tag {
	case "required":
		return field + " is required"
	case "uuid":
		return field + " must be a valid id"
	case "oneof":
		return field + " is not recognised"
	}
	return field + " is invalid"
}
