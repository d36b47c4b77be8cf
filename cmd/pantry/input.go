package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pantry"
)

type pantryFile struct {
	Items []pantry.Item `yaml:"items"`
}

type recipeFile struct {
	Title       string              `yaml:"title"`
	Ingredients []pantry.Ingredient `yaml:"ingredients"`
}

func loadPantryFile(path string) ([]pantry.Item, error) {
	var f pantryFile
	if err := decodeYAMLFile(path, &f); err != nil {
		return nil, err
	}
	return f.Items, nil
}

func loadRecipeFile(path string) (recipeFile, error) {
	var f recipeFile
	if err := decodeYAMLFile(path, &f); err != nil {
		return recipeFile{}, err
	}
	return f, nil
}

func decodeYAMLFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
