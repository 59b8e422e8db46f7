package models

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Client{},
		&Project{},
		&Task{},
		&TaskComment{},
		&Message{},
		&Notification{},
		&File{},
		&Credential{},
		&OnboardingItem{},
		&RotationCursor{},
		&WebhookDelivery{},
		&RefreshToken{},
		&SystemLog{},
	}
}
