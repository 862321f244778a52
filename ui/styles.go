package ui

import "github.com/charmbracelet/lipgloss"

// Define common styles
var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// Created formats the one-line confirmation printed after a successful run
func Created(indexFilename, outputDir string) string {
	return successStyle.Render(indexFilename) + " have created in " + pathStyle.Render(outputDir)
}

// Failed formats a fatal error for the terminal
func Failed(msg string) string {
	return failStyle.Render("error: " + msg)
}
