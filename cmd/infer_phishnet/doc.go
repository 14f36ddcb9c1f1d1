// Package main provides a program scoring URLs with an exported phishing classifier.
// It loads model.onnx and scaler.json from the model directory and prints the phishing
// probability of every URL given on the command line.
package main
