package config

import "os"

type Config struct {
	ServerPort      string
	PolicyPath      string
	InferenceAPIURL string
	MaxFileSize     int64
}

func LoadConfig() *Config {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	policyPath := os.Getenv("LENDING_POLICY_PATH")
	if policyPath == "" {
		policyPath = "/etc/mkopo/policy.json"
	}

	inferenceURL := os.Getenv("INFERENCE_API_URL")
	if inferenceURL == "" {
		inferenceURL = "http://vision-inference:8866/v1/describe"
	}

	return &Config{
		ServerPort:      serverPort,
		PolicyPath:      policyPath,
		InferenceAPIURL: inferenceURL,
		MaxFileSize:     10 * 1024 * 1024, // 10 MB
	}
}
