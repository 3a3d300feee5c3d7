package config

import "os"

type Config struct {
	Port              string
	MongoURI          string
	MongoDBName       string
	JWTSecret         string
	RazorpayKeyID     string
	RazorpayKeySecret string
	SendgridAPIKey    string
	EmailSender       string
	RabbitURL         string
}

func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8000"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:       getEnv("MONGO_DB_NAME", "zuka"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		SendgridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		EmailSender:       getEnv("EMAIL_SENDER", "noreply@zuka.store"),
		RabbitURL:         getEnv("RABBIT_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
