package model_test

import (
	"encoding/json"
	"testing"

	"github.com/izniy/NexusBook/common/model"
)

func TestUserRecord_ToContact(t *testing.T) {
	rec := model.UserRecord{
		Login:   model.UserLogin{UUID: "a"},
		Name:    model.UserName{First: "Ada", Last: "Lovelace"},
		Email:   "ada@example.com",
		Phone:   "555-0100",
		Picture: model.UserPicture{Large: "https://img/large.jpg", Thumbnail: "https://img/t.jpg"},
	}
	got := rec.ToContact()
	want := model.Contact{
		ID:      "a",
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Phone:   "555-0100",
		Picture: "https://img/large.jpg",
	}
	if got != want {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestContactView_JSON(t *testing.T) {
	v := model.ContactView{Contact: model.Contact{ID: "b", Name: "B B"}, IsFavorite: true}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatal(err)
	}
	if fields["id"] != "b" || fields["isFavorite"] != true {
		t.Errorf("unexpected wire shape: %s", data)
	}
	if _, nested := fields["Contact"]; nested {
		t.Errorf("embedded contact must be flattened: %s", data)
	}
}

func TestUserResponse_MissingResults(t *testing.T) {
	var resp model.UserResponse
	if err := json.Unmarshal([]byte(`{"info":{}}`), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Results != nil {
		t.Error("expected nil Results when field is absent")
	}
}
