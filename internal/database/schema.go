package database

// Schema таблицы бота; cmd/db_init создаёт их в новой базе
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS cycles (
		id INT AUTO_INCREMENT PRIMARY KEY,
		board_text TEXT NOT NULL,
		board_rows INT NOT NULL,
		board_cols INT NOT NULL,
		mines INT NOT NULL,
		moves TEXT,
		solver VARCHAR(32) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS unidentified_samples (
		id INT AUTO_INCREMENT PRIMARY KEY,
		sample_id VARCHAR(64) NOT NULL,
		image_data LONGBLOB,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS status (
		id INT AUTO_INCREMENT PRIMARY KEY,
		current_status VARCHAR(32) NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS actions (
		id INT AUTO_INCREMENT PRIMARY KEY,
		action VARCHAR(32) NOT NULL,
		executed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
}
