package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

func IntPtr(i int) *int {
	return &i
}

func StrPtr(s string) *string {
	return &s
}

func LogExit(status int) {
	logrus.Infof("Exiting with status: %v", status)
	os.Exit(status)
}
