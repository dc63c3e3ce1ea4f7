package model

// Role представляет роль пользователя бота: "student", "manager" или "admin"
type Role struct {
	ID   int    `json:"id"`
	Name string `json:"role_name"`
}

// Permission представляет право, которое может быть привязано к роли.
// Правами управляются кнопки главного меню и доступ к staff-эндпоинтам.
type Permission struct {
	ID   int    `json:"id"`
	Name string `json:"permission_name"`
}
