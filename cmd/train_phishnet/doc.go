// Package main provides the program training the phishing URL classifier. It merges the
// CSV datasets of a directory, balances the labels, trains the network on lexical URL
// features and exports model.onnx with its scaler.json for the browser extension.
package main
