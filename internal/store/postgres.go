package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/FieldInspect/internal/core"
	"github.com/JonMunkholm/FieldInspect/internal/inventory"
)

//go:embed schema.sql
var schemaSQL string

// PGConfig holds PostgreSQL connection pool settings.
type PGConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Postgres implements core.Store on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ core.Store = (*Postgres)(nil)

// NewPostgres connects and pings the database.
func NewPostgres(ctx context.Context, cfg PGConfig) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse pg config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pg pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping pg: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// Ping checks connectivity for health checks.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Migrate applies the embedded schema.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Empty reports whether no users exist yet.
func (p *Postgres) Empty(ctx context.Context) (bool, error) {
	var exists bool
	if err := p.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users)`).Scan(&exists); err != nil {
		return false, fmt.Errorf("check users: %w", err)
	}
	return !exists, nil
}

// Seed writes ds in one transaction. Rows whose id already exists are
// left untouched, so seeding twice is harmless.
func (p *Postgres) Seed(ctx context.Context, ds Dataset) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, u := range ds.Users {
			batch.Queue(`INSERT INTO users (id, username, name, role, status, avatar, last_login, password_hash)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (id) DO NOTHING`,
				u.ID, u.Username, u.Name, u.Role, u.Status, u.Avatar, u.LastLogin, u.PasswordHash)
		}
		for _, c := range ds.Centers {
			batch.Queue(`INSERT INTO centers (id, name, code, governorate, status, lat, lng, supported_types)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (id) DO NOTHING`,
				c.ID, c.Name, c.Code, c.Governorate, c.Status, c.Lat, c.Lng, networkStrings(c.SupportedTypes))
		}
		for _, ev := range ds.LoginEvents {
			batch.Queue(`INSERT INTO login_events (id, user_id, user_name, user_role, occurred_at, lat, lng, address, status)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT (id) DO NOTHING`,
				ev.ID, ev.UserID, ev.UserName, ev.UserRole, ev.Timestamp, ev.Lat, ev.Lng, ev.Address, ev.Status)
		}
		for _, it := range ds.Items {
			batch.Queue(`INSERT INTO inventory_items (id, network, sector, region, main_exchange, sub_exchange,
					exchange_code, msan_code, cabinet, box_capacity, box_number, visit_status)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) ON CONFLICT (id) DO NOTHING`,
				it.ID, it.Network, it.Sector, it.Region, it.MainExchange, it.SubExchange,
				it.ExchangeCode, it.MSANCode, it.Cabinet, it.BoxCapacity, it.BoxNumber, it.VisitStatus)
		}
		for _, in := range ds.Inspections {
			batch.Queue(`INSERT INTO inspections (id, type, center_id, inspector_id, inspection_date, status, data, created_at)
				VALUES ($1, $2, NULLIF($3, ''), $4, $5::date, $6, $7, $8) ON CONFLICT (id) DO NOTHING`,
				in.ID, in.Type, in.CenterID, in.InspectorID, in.Date, in.Status, in.Data, in.CreatedAt)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		return nil
	})
}

func networkStrings(ns []inventory.Network) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = string(n)
	}
	return out
}

func isDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const userColumns = `id, username, name, role, status, avatar, last_login, password_hash`

func scanUser(row pgx.Row) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Role, &u.Status, &u.Avatar, &u.LastLogin, &u.PasswordHash)
	return u, err
}

func (p *Postgres) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (p *Postgres) getUser(ctx context.Context, where string, arg string) (core.User, error) {
	u, err := scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` = $1`, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.User{}, fmt.Errorf("%w: %s", core.ErrUserNotFound, arg)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (p *Postgres) GetUser(ctx context.Context, id string) (core.User, error) {
	return p.getUser(ctx, "id", id)
}

func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	return p.getUser(ctx, "username", username)
}

func (p *Postgres) CreateUser(ctx context.Context, u core.User) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO users (id, username, name, role, status, avatar, last_login, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Username, u.Name, u.Role, u.Status, u.Avatar, u.LastLogin, u.PasswordHash)
	if isDuplicateError(err) {
		return fmt.Errorf("%w: %q", core.ErrUsernameTaken, u.Username)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (p *Postgres) UpdateUser(ctx context.Context, u core.User) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE users SET username = $2, name = $3, role = $4, status = $5, avatar = $6, password_hash = $7
		 WHERE id = $1`,
		u.ID, u.Username, u.Name, u.Role, u.Status, u.Avatar, u.PasswordHash)
	if isDuplicateError(err) {
		return fmt.Errorf("%w: %q", core.ErrUsernameTaken, u.Username)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", core.ErrUserNotFound, u.ID)
	}
	return nil
}

func (p *Postgres) RecordLogin(ctx context.Context, ev core.LoginEvent) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, ev.UserID, ev.Timestamp)
		if err != nil {
			return fmt.Errorf("stamp last login: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", core.ErrUserNotFound, ev.UserID)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO login_events (id, user_id, user_name, user_role, occurred_at, lat, lng, address, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			ev.ID, ev.UserID, ev.UserName, ev.UserRole, ev.Timestamp, ev.Lat, ev.Lng, ev.Address, ev.Status)
		if err != nil {
			return fmt.Errorf("insert login event: %w", err)
		}
		return nil
	})
}

func (p *Postgres) ListLoginEvents(ctx context.Context) ([]core.LoginEvent, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, user_name, user_role, occurred_at, lat, lng, address, status
		 FROM login_events ORDER BY occurred_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list login events: %w", err)
	}
	defer rows.Close()

	var events []core.LoginEvent
	for rows.Next() {
		var ev core.LoginEvent
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.UserName, &ev.UserRole, &ev.Timestamp,
			&ev.Lat, &ev.Lng, &ev.Address, &ev.Status); err != nil {
			return nil, fmt.Errorf("scan login event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

const centerColumns = `id, name, code, governorate, status, lat, lng, supported_types`

func scanCenter(row pgx.Row) (core.Center, error) {
	var c core.Center
	var types []string
	if err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Governorate, &c.Status, &c.Lat, &c.Lng, &types); err != nil {
		return core.Center{}, err
	}
	for _, t := range types {
		c.SupportedTypes = append(c.SupportedTypes, inventory.Network(t))
	}
	return c, nil
}

func (p *Postgres) ListCenters(ctx context.Context) ([]core.Center, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+centerColumns+` FROM centers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list centers: %w", err)
	}
	defer rows.Close()

	var centers []core.Center
	for rows.Next() {
		c, err := scanCenter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan center: %w", err)
		}
		centers = append(centers, c)
	}
	return centers, rows.Err()
}

func (p *Postgres) GetCenter(ctx context.Context, id string) (core.Center, error) {
	c, err := scanCenter(p.pool.QueryRow(ctx, `SELECT `+centerColumns+` FROM centers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Center{}, fmt.Errorf("%w: %s", core.ErrCenterNotFound, id)
	}
	if err != nil {
		return core.Center{}, fmt.Errorf("get center: %w", err)
	}
	return c, nil
}

func (p *Postgres) ListInventory(ctx context.Context, n inventory.Network) ([]inventory.Item, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, network, sector, region, main_exchange, sub_exchange, exchange_code,
		        msan_code, cabinet, box_capacity, box_number, visit_status
		 FROM inventory_items WHERE network = $1 ORDER BY seq`, n)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var items []inventory.Item
	for rows.Next() {
		var it inventory.Item
		if err := rows.Scan(&it.ID, &it.Network, &it.Sector, &it.Region, &it.MainExchange, &it.SubExchange,
			&it.ExchangeCode, &it.MSANCode, &it.Cabinet, &it.BoxCapacity, &it.BoxNumber, &it.VisitStatus); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (p *Postgres) AddInspection(ctx context.Context, in core.Inspection, visit *inventory.BoxKey) (int, error) {
	marked := 0
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO inspections (id, type, center_id, inspector_id, inspection_date, status, data, created_at)
			 VALUES ($1, $2, NULLIF($3, ''), $4, $5::date, $6, $7, $8)`,
			in.ID, in.Type, in.CenterID, in.InspectorID, in.Date, in.Status, in.Data, in.CreatedAt)
		if isDuplicateError(err) {
			return fmt.Errorf("inspection id %q %w", in.ID, core.ErrDuplicate)
		}
		if err != nil {
			return fmt.Errorf("insert inspection: %w", err)
		}
		if visit == nil {
			return nil
		}

		tag, err := tx.Exec(ctx,
			`UPDATE inventory_items SET visit_status = $1
			 WHERE network = $2 AND cabinet = $3 AND box_number = $4 AND ($5 = '' OR msan_code = $5)`,
			inventory.Done, visit.Network, visit.Cabinet, visit.BoxNumber, visit.MSANCode)
		if err != nil {
			return fmt.Errorf("mark visited: %w", err)
		}
		marked = int(tag.RowsAffected())
		return nil
	})
	if err != nil {
		return 0, err
	}
	return marked, nil
}

const inspectionColumns = `id, type, COALESCE(center_id, ''), inspector_id, inspection_date::text, status, data, created_at`

func scanInspection(row pgx.Row) (core.Inspection, error) {
	var in core.Inspection
	err := row.Scan(&in.ID, &in.Type, &in.CenterID, &in.InspectorID, &in.Date, &in.Status, &in.Data, &in.CreatedAt)
	if in.Data == nil {
		in.Data = map[string]string{}
	}
	return in, err
}

func (p *Postgres) ListInspections(ctx context.Context) ([]core.Inspection, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+inspectionColumns+` FROM inspections ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list inspections: %w", err)
	}
	defer rows.Close()

	var out []core.Inspection
	for rows.Next() {
		in, err := scanInspection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inspection: %w", err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (p *Postgres) GetInspection(ctx context.Context, id string) (core.Inspection, error) {
	in, err := scanInspection(p.pool.QueryRow(ctx, `SELECT `+inspectionColumns+` FROM inspections WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Inspection{}, fmt.Errorf("%w: %s", core.ErrInspectionNotFound, id)
	}
	if err != nil {
		return core.Inspection{}, fmt.Errorf("get inspection: %w", err)
	}
	return in, nil
}
