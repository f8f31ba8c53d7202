package diag

import (
	"fmt"
)

type Code uint16

const (
	// UnknownCode is the fallback for diagnostics without a category.
	UnknownCode Code = 0

	// Name resolution (3000-3099)
	ResInfo                   Code = 3000
	ResUnresolvedType         Code = 3001 // cannot find type in this scope
	ResUnresolvedTrait        Code = 3002 // cannot find trait in this scope
	ResUnresolvedValue        Code = 3003 // cannot find value in this scope
	ResUnresolvedPattern      Code = 3004 // cannot find unit struct/variant/const in pattern
	ResUnresolvedStruct       Code = 3005 // cannot find struct/variant/union type
	ResUnresolvedTupleStruct  Code = 3006 // cannot find tuple struct/variant
	ResExpectedType           Code = 3011 // expected type, found something else
	ResExpectedTrait          Code = 3012 // expected trait, found something else
	ResExpectedValue          Code = 3013 // expected value, found something else
	ResExpectedPattern        Code = 3014 // expected unit struct/variant/const, found something else
	ResExpectedStruct         Code = 3015 // expected struct/variant/union type, found something else
	ResExpectedTupleStruct    Code = 3016 // expected tuple struct/variant, found something else
	ResSelfTypeOutsideItem    Code = 3021 // `Self` outside impls, traits, type definitions
	ResSelfValueOutsideMethod Code = 3022 // `self` outside a method with a receiver
	ResUnresolvedLabel        Code = 3023 // use of undeclared label

	// Lifetimes (3100-3199)
	LifUndeclaredName    Code = 3100 // use of undeclared lifetime name
	LifMissingSpecifier  Code = 3101 // missing lifetime specifier
	LifElisionUnresolved Code = 3102 // elided lifetime cannot be resolved

	// I/O (4000-4999)
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:               "Unknown error",
	ResInfo:                   "Resolution information",
	ResUnresolvedType:         "Unresolved type",
	ResUnresolvedTrait:        "Unresolved trait",
	ResUnresolvedValue:        "Unresolved value",
	ResUnresolvedPattern:      "Unresolved pattern path",
	ResUnresolvedStruct:       "Unresolved struct type",
	ResUnresolvedTupleStruct:  "Unresolved tuple struct",
	ResExpectedType:           "Expected type",
	ResExpectedTrait:          "Expected trait",
	ResExpectedValue:          "Expected value",
	ResExpectedPattern:        "Expected pattern path",
	ResExpectedStruct:         "Expected struct type",
	ResExpectedTupleStruct:    "Expected tuple struct",
	ResSelfTypeOutsideItem:    "'Self' is only available in impls, traits, and type definitions",
	ResSelfValueOutsideMethod: "'self' is only available in methods with a 'self' parameter",
	ResUnresolvedLabel:        "Use of undeclared label",
	LifUndeclaredName:         "Use of undeclared lifetime name",
	LifMissingSpecifier:       "Missing lifetime specifier",
	LifElisionUnresolved:      "Elided lifetime cannot be resolved",
	IOLoadFileError:           "I/O load file error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 3100:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 3100 && ic < 3200:
		return fmt.Sprintf("LIF%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
