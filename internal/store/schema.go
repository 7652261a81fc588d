package store

// SQLite DDL. Dates are stored as ISO-8601 text so both drivers return the
// same representation.
const (
	sqliteProducer = `CREATE TABLE IF NOT EXISTS producer (
    producer_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    birth_date TEXT,
    nationality TEXT
);`

	sqliteDirector = `CREATE TABLE IF NOT EXISTS director (
    director_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    birth_date TEXT,
    nationality TEXT
);`

	sqliteActor = `CREATE TABLE IF NOT EXISTS actor (
    actor_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    birth_date TEXT,
    nationality TEXT
);`

	sqlitePlatform = `CREATE TABLE IF NOT EXISTS streaming_platform (
    platform_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    subscription_cost REAL NOT NULL DEFAULT 0 CHECK (subscription_cost >= 0),
    launch_year INTEGER
);`

	sqliteProgram = `CREATE TABLE IF NOT EXISTS program (
    program_id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    yr_released INTEGER NOT NULL,
    runtime INTEGER,
    format TEXT NOT NULL,
    type TEXT NOT NULL DEFAULT 'movie' CHECK (type IN ('movie', 'tv_show', 'special')),
    program_rating TEXT NOT NULL,
    rating REAL,
    description TEXT,
    image_url TEXT,
    seasons INTEGER,
    episodes INTEGER,
    producer_id INTEGER REFERENCES producer(producer_id) ON DELETE SET NULL
);`

	sqliteProgramDirector = `CREATE TABLE IF NOT EXISTS program_director (
    program_id INTEGER NOT NULL REFERENCES program(program_id) ON DELETE CASCADE,
    director_id INTEGER NOT NULL REFERENCES director(director_id) ON DELETE CASCADE,
    role TEXT NOT NULL DEFAULT 'Director',
    PRIMARY KEY (program_id, director_id)
);`

	sqliteProgramActor = `CREATE TABLE IF NOT EXISTS program_actor (
    program_id INTEGER NOT NULL REFERENCES program(program_id) ON DELETE CASCADE,
    actor_id INTEGER NOT NULL REFERENCES actor(actor_id) ON DELETE CASCADE,
    character_name TEXT,
    role_type TEXT NOT NULL DEFAULT 'supporting',
    PRIMARY KEY (program_id, actor_id)
);`

	sqliteProgramPlatform = `CREATE TABLE IF NOT EXISTS program_streaming_platform (
    program_id INTEGER NOT NULL REFERENCES program(program_id) ON DELETE CASCADE,
    platform_id INTEGER NOT NULL REFERENCES streaming_platform(platform_id) ON DELETE CASCADE,
    available_from TEXT,
    is_currently_available INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (program_id, platform_id)
);`
)

var sqliteSchema = []string{
	sqliteProducer,
	sqliteDirector,
	sqliteActor,
	sqlitePlatform,
	sqliteProgram,
	sqliteProgramDirector,
	sqliteProgramActor,
	sqliteProgramPlatform,
	`CREATE INDEX IF NOT EXISTS idx_program_title ON program(title);`,
	`CREATE INDEX IF NOT EXISTS idx_program_year ON program(yr_released);`,
	`CREATE INDEX IF NOT EXISTS idx_program_producer ON program(producer_id);`,
	`CREATE INDEX IF NOT EXISTS idx_program_director_director ON program_director(director_id);`,
	`CREATE INDEX IF NOT EXISTS idx_program_actor_actor ON program_actor(actor_id);`,
	`CREATE INDEX IF NOT EXISTS idx_program_platform_platform ON program_streaming_platform(platform_id);`,
}

// MySQL DDL (InnoDB for foreign keys and transactions).
const (
	mysqlProducer = `CREATE TABLE IF NOT EXISTS producer (
    producer_id INT AUTO_INCREMENT PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    birth_date DATE NULL,
    nationality VARCHAR(100) NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	mysqlDirector = `CREATE TABLE IF NOT EXISTS director (
    director_id INT AUTO_INCREMENT PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    birth_date DATE NULL,
    nationality VARCHAR(100) NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	mysqlActor = `CREATE TABLE IF NOT EXISTS actor (
    actor_id INT AUTO_INCREMENT PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    birth_date DATE NULL,
    nationality VARCHAR(100) NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	mysqlPlatform = `CREATE TABLE IF NOT EXISTS streaming_platform (
    platform_id INT AUTO_INCREMENT PRIMARY KEY,
    name VARCHAR(100) NOT NULL UNIQUE,
    subscription_cost DECIMAL(6,2) NOT NULL DEFAULT 0,
    launch_year INT NULL,
    CHECK (subscription_cost >= 0)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	mysqlProgram = `CREATE TABLE IF NOT EXISTS program (
    program_id INT AUTO_INCREMENT PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    yr_released INT NOT NULL,
    runtime INT NULL,
    format VARCHAR(50) NOT NULL,
    type ENUM('movie', 'tv_show', 'special') NOT NULL DEFAULT 'movie',
    program_rating VARCHAR(10) NOT NULL,
    rating DECIMAL(3,1) NULL,
    description TEXT NULL,
    image_url VARCHAR(500) NULL,
    seasons INT NULL,
    episodes INT NULL,
    producer_id INT NULL,
    INDEX idx_program_title (title),
    INDEX idx_program_year (yr_released),
    FOREIGN KEY (producer_id) REFERENCES producer(producer_id) ON DELETE SET NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	mysqlProgramDirector = `CREATE TABLE IF NOT EXISTS program_director (
    program_id INT NOT NULL,
    director_id INT NOT NULL,
    role VARCHAR(100) NOT NULL DEFAULT 'Director',
    PRIMARY KEY (program_id, director_id),
    FOREIGN KEY (program_id) REFERENCES program(program_id) ON DELETE CASCADE,
    FOREIGN KEY (director_id) REFERENCES director(director_id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	mysqlProgramActor = `CREATE TABLE IF NOT EXISTS program_actor (
    program_id INT NOT NULL,
    actor_id INT NOT NULL,
    character_name VARCHAR(255) NULL,
    role_type VARCHAR(50) NOT NULL DEFAULT 'supporting',
    PRIMARY KEY (program_id, actor_id),
    FOREIGN KEY (program_id) REFERENCES program(program_id) ON DELETE CASCADE,
    FOREIGN KEY (actor_id) REFERENCES actor(actor_id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	mysqlProgramPlatform = `CREATE TABLE IF NOT EXISTS program_streaming_platform (
    program_id INT NOT NULL,
    platform_id INT NOT NULL,
    available_from DATE NULL,
    is_currently_available BOOLEAN NOT NULL DEFAULT TRUE,
    PRIMARY KEY (program_id, platform_id),
    FOREIGN KEY (program_id) REFERENCES program(program_id) ON DELETE CASCADE,
    FOREIGN KEY (platform_id) REFERENCES streaming_platform(platform_id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
)

var mysqlSchema = []string{
	mysqlProducer,
	mysqlDirector,
	mysqlActor,
	mysqlPlatform,
	mysqlProgram,
	mysqlProgramDirector,
	mysqlProgramActor,
	mysqlProgramPlatform,
}
