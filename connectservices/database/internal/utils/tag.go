package utils

import (
	"reflect"
	"strings"
)

type DBTag struct {
	Column        string
	ReadOnly      bool
	PrimaryKey    bool
	AutoIncrement bool
	JSON          bool
}

// ParseTag reads a `db:"column,option,..."` struct tag.
func ParseTag(tagString reflect.StructTag) DBTag {
	parts := strings.Split(tagString.Get("db"), ",")

	tag := DBTag{}

	for i, part := range parts {
		if i == 0 {
			tag.Column = strings.TrimSpace(part)
			continue
		}

		switch strings.TrimSpace(part) {
		case "readOnly":
			tag.ReadOnly = true
		case "primaryKey":
			tag.PrimaryKey = true
		case "autoIncrement":
			tag.AutoIncrement = true
		case "json":
			tag.JSON = true
		}
	}

	if tag.Column == "-" {
		tag.Column = ""
	}

	return tag
}
