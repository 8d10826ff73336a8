package uom

import (
	"errors"
	"time"
)

// Category groups units that can be converted into each other.
type Category string

const (
	// CategoryWeight covers mass units such as KG and GRAM.
	CategoryWeight Category = "WEIGHT"
	// CategoryLength covers linear units such as METER and YARD.
	CategoryLength Category = "LENGTH"
	// CategoryCount covers discrete units such as PCS and DOZEN.
	CategoryCount Category = "COUNT"
	// CategoryVolume covers volumetric units.
	CategoryVolume Category = "VOLUME"
	// CategoryArea covers surface units.
	CategoryArea Category = "AREA"
)

// Valid reports whether the category is one of the known groups.
func (c Category) Valid() bool {
	switch c {
	case CategoryWeight, CategoryLength, CategoryCount, CategoryVolume, CategoryArea:
		return true
	}
	return false
}

// Unit models a unit of measure. ConversionFactor expresses one unit in
// the base unit of its category; the base unit carries factor 1.
type Unit struct {
	ID               string    `json:"id"`
	Name             string    `json:"uom_name"`
	Symbol           string    `json:"symbol,omitempty"`
	Category         Category  `json:"uom_category"`
	IsBaseUnit       bool      `json:"is_base_unit"`
	ConversionFactor float64   `json:"conversion_factor"`
	DecimalPrecision int       `json:"decimal_precision"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// ErrUnitNotFound indicates a referenced unit does not exist.
var ErrUnitNotFound = errors.New("uom: unit not found")

// ErrIncompatibleUnits indicates a conversion across unit categories.
var ErrIncompatibleUnits = errors.New("uom: cannot convert between different unit categories")

// ErrInvalidCategory indicates an unknown unit category.
var ErrInvalidCategory = errors.New("uom: invalid unit category")

// ErrInvalidFactor indicates a non-positive conversion factor.
var ErrInvalidFactor = errors.New("uom: conversion factor must be positive")
