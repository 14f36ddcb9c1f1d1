// Package trainer provides the training protocol of the phishing classifier.
// It runs full-batch epochs of binary cross-entropy minimized with Adam, reports
// progress at a fixed interval and aborts when the loss stops being finite.
package trainer
