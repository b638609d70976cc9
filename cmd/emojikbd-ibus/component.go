//go:build linux

package main

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// component is the IBus component description read by ibus-daemon.
type component struct {
	XMLName     xml.Name `xml:"component"`
	Name        string   `xml:"name"`
	Description string   `xml:"description"`
	Exec        string   `xml:"exec"`
	Version     string   `xml:"version"`
	Author      string   `xml:"author"`
	License     string   `xml:"license"`
	Textdomain  string   `xml:"textdomain"`
	Engines     []engine `xml:"engines>engine"`
}

type engine struct {
	Name        string `xml:"name"`
	Language    string `xml:"language"`
	License     string `xml:"license"`
	Author      string `xml:"author"`
	Icon        string `xml:"icon"`
	Layout      string `xml:"layout"`
	LongName    string `xml:"longname"`
	Description string `xml:"description"`
	Rank        int    `xml:"rank"`
	Symbol      string `xml:"symbol"`
}

const version = "1.0.0"

func newComponent(busName, engineName, execPath string) component {
	return component{
		Name:        busName,
		Description: "Emoji keyboard translator",
		Exec:        execPath + " -ibus",
		Version:     version,
		Author:      "emojikbd",
		License:     "MIT",
		Textdomain:  "emojikbd",
		Engines: []engine{{
			Name:        engineName,
			Language:    "en",
			License:     "MIT",
			Author:      "emojikbd",
			Icon:        "face-smile",
			Layout:      "us",
			LongName:    "Emoji Translator",
			Description: "Types an emoji for every letter",
			Rank:        0,
			Symbol:      "😀",
		}},
	}
}

func (c component) marshal() ([]byte, error) {
	out, err := xml.MarshalIndent(c, "", "    ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

func componentDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "ibus", "component"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "ibus", "component"), nil
}

func componentPath(engineName string) (string, error) {
	dir, err := componentDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, engineName+".xml"), nil
}

func installComponent(busName, engineName string) (string, error) {
	path, err := componentPath(engineName)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	binPath, err := os.Executable()
	if err != nil {
		binPath = "/usr/local/bin/emojikbd-ibus"
	}

	data, err := newComponent(busName, engineName, binPath).marshal()
	if err != nil {
		return "", fmt.Errorf("encode component: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func uninstallComponent(engineName string) (string, error) {
	path, err := componentPath(engineName)
	if err != nil {
		return "", err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	return path, nil
}
